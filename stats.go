package basic

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/tklauser/go-sysconf"
)

func (in *Interpreter) initClock() {

	in.r.started = time.Now()
	in.r.startUtime, in.r.startStime = getCPUInfo()
}

func (in *Interpreter) finishStatistics() Stats {

	utime, stime := getCPUInfo()

	in.r.stats.Elapsed = time.Since(in.r.started)
	in.r.stats.UserCPU = utime - in.r.startUtime
	in.r.stats.SystemCPU = stime - in.r.startStime

	if in.opts.Stats {
		in.printStatistics(in.r.stats)
	}

	return in.r.stats
}

func (in *Interpreter) printStatistics(stats Stats) {

	w := in.opts.Diagnostics
	if w == nil {
		return
	}

	fmt.Fprintf(w, "%d %s executed\n", stats.Statements,
		pluralize("statement", stats.Statements))

	fmt.Fprintf(w, "CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(stats.Elapsed), formatCPUTime(stats.UserCPU),
		formatCPUTime(stats.SystemCPU))
}

//
// hh:mm:ss.mmm
//

func formatCPUTime(d time.Duration) string {

	ms := d.Milliseconds()

	h := ms / 3600000
	ms %= 3600000
	m := ms / 60000
	ms %= 60000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, ms/1000, ms%1000)
}

func pluralize(str string, num int64) string {

	//
	// Oddity: 0 is considered plural
	//

	if num != 1 {
		str += "s"
	}

	return str
}

//
// Process user and system time so far.  Only Linux has /proc/self/stat;
// anywhere else (or on any error) we report zero rather than fail
// the run
//

func getCPUInfo() (time.Duration, time.Duration) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck <= 0 {
		log.LogVf("no clock tick rate: %v", err)
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		log.LogVf("no process times: %v", err)
		return 0, 0
	}

	//
	// The command name is in parentheses and may contain spaces, so
	// count fields from the last ')'.  utime and stime are fields 14
	// and 15 of the whole line
	//

	stat := string(contents)
	if i := strings.LastIndexByte(stat, ')'); i >= 0 {
		stat = stat[i+1:]
	}

	fields := strings.Fields(stat)
	if len(fields) < 13 {
		return 0, 0
	}

	utime, uerr := strconv.ParseInt(fields[11], 10, 64)
	stime, serr := strconv.ParseInt(fields[12], 10, 64)
	if uerr != nil || serr != nil {
		return 0, 0
	}

	tick := time.Second / time.Duration(clktck)

	return time.Duration(utime) * tick, time.Duration(stime) * tick
}

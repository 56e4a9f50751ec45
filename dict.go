package basic

//
// Dict is the keyed value a scalar can hold.  Keys keep the order they
// were first set in, which is the order KEYS and VALUES report
//

type Dict struct {
	keys []string
	vals map[string]Value
}

func NewDict() *Dict {

	return &Dict{vals: make(map[string]Value)}
}

func (d *Dict) Len() int {

	return len(d.keys)
}

func (d *Dict) Get(key string) (Value, bool) {

	v, ok := d.vals[key]

	return v, ok
}

func (d *Dict) Set(key string, val Value) {

	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.vals[key] = val
}

//
// Pop reports whether the key was there to remove
//

func (d *Dict) Pop(key string) bool {

	if _, ok := d.vals[key]; !ok {
		return false
	}

	delete(d.vals, key)

	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i:i], d.keys[i+1:]...)
			break
		}
	}

	return true
}

func (d *Dict) Clear() {

	d.keys = nil
	d.vals = make(map[string]Value)
}

//
// Update copies every entry of other into d, other winning on
// collisions
//

func (d *Dict) Update(other *Dict) {

	for _, k := range other.keys {
		d.Set(k, other.vals[k])
	}
}

func (d *Dict) Keys() []Value {

	keys := make([]Value, 0, len(d.keys))
	for _, k := range d.keys {
		keys = append(keys, k)
	}

	return keys
}

func (d *Dict) Values() []Value {

	vals := make([]Value, 0, len(d.keys))
	for _, k := range d.keys {
		vals = append(vals, d.vals[k])
	}

	return vals
}

// Package values defines the small validated value types shared by every
// entity category: calendar dates, 12-hour clock times, file references, and
// select option pairs.
//
// Construction is the only validation point. A value obtained from one of the
// constructors is guaranteed valid for its lifetime; there are no setters that
// bypass validation. Each type round-trips exactly through its JSON form, so
// snapshot persistence can reconstruct values without shallow-copying fields.
package values

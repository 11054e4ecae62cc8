package rtscam

import (
	"reflect"
)

// Queries iterate every table containing the requested component set.
// Components listed as optionals may be missing from a table; the callback
// then receives nil for that argument. Returning false from the callback
// stops iteration early.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }
type Query4[A, B, C, D any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: cmd.app.ecs}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponents1[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, tbl := range q.ecs.tables {
		comps1, ok1 := tableColumn[A](tbl, id1, opt)
		if !ok1 {
			continue
		}

		for eid, r := range tbl.entities {
			if !m(eid, columnPtr(comps1, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := identifyComponents2[A, B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, tbl := range q.ecs.tables {
		comps1, ok1 := tableColumn[A](tbl, id1, opt)
		if !ok1 {
			continue
		}
		comps2, ok2 := tableColumn[B](tbl, id2, opt)
		if !ok2 {
			continue
		}

		for eid, r := range tbl.entities {
			if !m(eid, columnPtr(comps1, r), columnPtr(comps2, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := identifyComponents3[A, B, C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, tbl := range q.ecs.tables {
		comps1, ok1 := tableColumn[A](tbl, id1, opt)
		if !ok1 {
			continue
		}
		comps2, ok2 := tableColumn[B](tbl, id2, opt)
		if !ok2 {
			continue
		}
		comps3, ok3 := tableColumn[C](tbl, id3, opt)
		if !ok3 {
			continue
		}

		for eid, r := range tbl.entities {
			if !m(eid, columnPtr(comps1, r), columnPtr(comps2, r), columnPtr(comps3, r)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	id1, id2, id3, id4 := identifyComponents4[A, B, C, D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, tbl := range q.ecs.tables {
		comps1, ok1 := tableColumn[A](tbl, id1, opt)
		if !ok1 {
			continue
		}
		comps2, ok2 := tableColumn[B](tbl, id2, opt)
		if !ok2 {
			continue
		}
		comps3, ok3 := tableColumn[C](tbl, id3, opt)
		if !ok3 {
			continue
		}
		comps4, ok4 := tableColumn[D](tbl, id4, opt)
		if !ok4 {
			continue
		}

		for eid, r := range tbl.entities {
			if !m(eid, columnPtr(comps1, r), columnPtr(comps2, r), columnPtr(comps3, r), columnPtr(comps4, r)) {
				return
			}
		}
	}
}

// tableColumn resolves one required-or-optional column. A nil slice with
// ok=true means "optional component not present in this table".
func tableColumn[T any](tbl *table, cid componentId, opt set[componentId]) ([]T, bool) {
	if col, ok := tbl.columns[cid]; ok {
		return col.([]T), true
	}
	if _, ok := opt[cid]; ok {
		return nil, true
	}
	return nil, false
}

func columnPtr[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(reflect.TypeOf(c))] = struct{}{}
	}
	return res
}

func identifyComponents1[A any](ecs *Ecs) componentId {
	var a A
	return ecs.getComponentId(reflect.TypeOf(a))
}

func identifyComponents2[A, B any](ecs *Ecs) (componentId, componentId) {
	var a A
	var b B
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b))
}

func identifyComponents3[A, B, C any](ecs *Ecs) (componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c))
}

func identifyComponents4[A, B, C, D any](ecs *Ecs) (componentId, componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	var d D
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c)), ecs.getComponentId(reflect.TypeOf(d))
}

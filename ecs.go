package rtscam

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type tableId uint64
type tableKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

// Ecs is an archetype (table) based component store. Entities with the same
// component set share a table; each component type is a typed slice column.
type Ecs struct {
	tables      map[tableId]*table
	entityIndex map[EntityId]tableId

	idLock          sync.Mutex
	entityIdCounter EntityId

	componentLock      sync.Mutex
	componentIdCounter componentId
	componentTypeIdMap map[reflect.Type]componentId
	componentIdTypeMap map[componentId]reflect.Type
}

func MakeEcs() Ecs {
	return Ecs{
		tables:             make(map[tableId]*table),
		entityIndex:        make(map[EntityId]tableId),
		entityIdCounter:    EntityId(0),
		componentIdCounter: componentId(0),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type table struct {
	id       tableId
	key      tableKey
	entities map[EntityId]row
	columns  map[componentId]any // []T per component, held as any
	recycled []row
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	eid := ecs.nextEntityId()
	return ecs.insertEntity(eid, components...)
}

func (ecs *Ecs) insertEntity(eid EntityId, components ...any) EntityId {
	tid, tbl := ecs.getOrMakeTable(ecs.tableKeyOf(components...))

	r := ecs.reserveRow(tbl)
	tbl.entities[eid] = r
	for _, component := range components {
		ecs.writeComponent(tbl, r, component)
	}

	ecs.entityIndex[eid] = tid
	return eid
}

func (ecs *Ecs) removeEntity(eid EntityId) {
	ecs.recycleEntity(eid)
}

func (ecs *Ecs) addComponents(eid EntityId, components ...any) {
	srcTbl := ecs.tables[ecs.entityIndex[eid]]
	srcRow := srcTbl.entities[eid]

	dstKey := combineTableKeys(srcTbl.key, ecs.tableKeyOf(components...))
	dstTid, dstTbl := ecs.getOrMakeTable(dstKey)
	dstRow := ecs.reserveRow(dstTbl)

	ecs.moveComponents(srcTbl, srcRow, dstTbl, dstRow)
	for _, component := range components {
		ecs.writeComponent(dstTbl, dstRow, component)
	}

	ecs.recycleEntity(eid)

	dstTbl.entities[eid] = dstRow
	ecs.entityIndex[eid] = dstTid
}

func (ecs *Ecs) removeComponents(eid EntityId, components ...any) {
	srcTbl := ecs.tables[ecs.entityIndex[eid]]
	srcRow := srcTbl.entities[eid]

	removeSet := make(set[componentId])
	for _, c := range components {
		removeSet[ecs.getComponentId(structTypeOf(c))] = struct{}{}
	}

	var dstKey tableKey
	for _, cid := range srcTbl.key {
		if _, drop := removeSet[cid]; !drop {
			dstKey = append(dstKey, cid)
		}
	}

	dstTid, dstTbl := ecs.getOrMakeTable(dstKey)
	dstRow := ecs.reserveRow(dstTbl)

	ecs.moveComponents(srcTbl, srcRow, dstTbl, dstRow)
	ecs.recycleEntity(eid)

	dstTbl.entities[eid] = dstRow
	ecs.entityIndex[eid] = dstTid
}

// moveComponents copies the intersection of the two tables' columns. When
// removing components the destination key is the smaller of the two.
func (ecs *Ecs) moveComponents(srcTbl *table, srcRow row, dstTbl *table, dstRow row) {
	key := srcTbl.key
	if len(dstTbl.key) < len(key) {
		key = dstTbl.key
	}

	for _, cid := range key {
		val := reflectSliceGet(srcTbl.columns[cid], int(srcRow))
		reflectSliceSet(dstTbl.columns[cid], int(dstRow), val)
	}
}

func (ecs *Ecs) writeComponent(dstTbl *table, dstRow row, component any) {
	componentType := reflect.TypeOf(component)
	reflectValue := reflect.ValueOf(component)
	if componentType.Kind() == reflect.Pointer {
		componentType = componentType.Elem()
		reflectValue = reflectValue.Elem()
	}
	if componentType.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %s", componentType.Kind()))
	}

	cid := ecs.getComponentId(componentType)
	reflectSliceSet(dstTbl.columns[cid], int(dstRow), reflectValue)
}

func (ecs *Ecs) recycleEntity(eid EntityId) {
	tbl := ecs.tables[ecs.entityIndex[eid]]

	r := tbl.entities[eid]
	tbl.recycled = append(tbl.recycled, r)

	delete(tbl.entities, eid)
	delete(ecs.entityIndex, eid)
}

func (ecs *Ecs) getOrMakeTable(key tableKey) (tableId, *table) {
	id := getTableId(key)

	if tbl, ok := ecs.tables[id]; ok {
		return id, tbl
	}

	tbl := &table{
		id:       id,
		key:      key,
		entities: make(map[EntityId]row),
		columns:  make(map[componentId]any),
		recycled: make([]row, 0),
	}
	for _, cid := range tbl.key {
		tbl.columns[cid] = reflectSliceMake(ecs.componentIdTypeMap[cid])
	}

	ecs.tables[id] = tbl
	return id, tbl
}

func (ecs *Ecs) reserveRow(tbl *table) row {
	if n := len(tbl.recycled); n > 0 {
		r := tbl.recycled[n-1]
		tbl.recycled = tbl.recycled[:n-1]
		return r
	}

	r := row(len(tbl.entities))
	for _, cid := range tbl.key {
		tbl.columns[cid] = reflectSliceAppend(
			tbl.columns[cid],
			reflect.Zero(ecs.componentIdTypeMap[cid]),
		)
	}
	return r
}

// A table's canonical key is the sorted, deduplicated list of component ids.
// The tableId is an FNV hash of the key: fast to look up and compare, but
// only the key itself is truly unique.
func (ecs *Ecs) tableKeyOf(components ...any) tableKey {
	var res tableKey
	for _, component := range components {
		res = append(res, ecs.getComponentId(structTypeOf(component)))
	}
	return dedupAndSortTableKey(res)
}

func structTypeOf(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic("component should be a struct")
	}
	return t
}

func combineTableKeys(a tableKey, b tableKey) tableKey {
	return dedupAndSortTableKey(append(slices.Clone(a), b...))
}

func dedupAndSortTableKey(key tableKey) tableKey {
	dedup := make(set[componentId])
	for _, v := range key {
		dedup[v] = struct{}{}
	}

	res := make(tableKey, 0, len(dedup))
	for k := range dedup {
		res = append(res, k)
	}

	slices.Sort(res)
	return res
}

func getTableId(key tableKey) tableId {
	hash := fnv.New64a()
	b := make([]byte, 8)
	for _, cid := range key {
		binary.LittleEndian.PutUint64(b, uint64(cid))
		hash.Write(b)
	}
	return tableId(hash.Sum64())
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idLock.Lock()
	defer ecs.idLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1
	return id
}

func (ecs *Ecs) getComponentId(componentType reflect.Type) componentId {
	ecs.componentLock.Lock()
	defer ecs.componentLock.Unlock()

	if id, ok := ecs.componentTypeIdMap[componentType]; ok {
		return id
	}

	id := ecs.componentIdCounter
	ecs.componentIdCounter += 1

	ecs.componentTypeIdMap[componentType] = id
	ecs.componentIdTypeMap[id] = componentType
	return id
}

func (ecs *Ecs) getComponentType(cid componentId) reflect.Type {
	if t, ok := ecs.componentIdTypeMap[cid]; ok {
		return t
	}
	panic("component id not registered")
}

// Typed-slice helpers. Columns are stored as any and manipulated through
// reflection; queries cast them back to []T.

func reflectSliceMake(elem reflect.Type) any {
	return reflect.MakeSlice(reflect.SliceOf(elem), 0, 1).Interface()
}

func reflectSliceGet(slice any, idx int) reflect.Value {
	return reflect.ValueOf(slice).Index(idx)
}

func reflectSliceSet(slice any, idx int, val reflect.Value) {
	reflect.ValueOf(slice).Index(idx).Set(val)
}

func reflectSliceAppend(slice any, val reflect.Value) any {
	return reflect.Append(reflect.ValueOf(slice), val).Interface()
}

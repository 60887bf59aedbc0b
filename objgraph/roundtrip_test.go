package objgraph_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/msgtree"
	"github.com/relstream/fudge/objgraph"
	"github.com/relstream/fudge/wireio"
	"github.com/relstream/fudge/wtype"
)

type Person struct {
	Name string
	Age  int32
	Best *Person
}

func newTypeMap() (*objgraph.TypeMap, *wtype.Dictionary) {
	tm := objgraph.NewDefaultTypeMap()
	tm.RegisterType(reflect.TypeOf(Person{}), "fudge.test.Person")
	tm.RegisterType(reflect.TypeOf(classicBox{}), "fudge.test.classicBox")
	tm.RegisterType(reflect.TypeOf(hookBox{}), "fudge.test.hookBox")

	return tm, wtype.NewDictionary()
}

func roundTrip(t *testing.T, tm *objgraph.TypeMap, obj any, hintType reflect.Type) any {
	t.Helper()

	envelope := wireio.EnvelopeInfo{ProcessingDirectives: 1, SchemaVersion: 1, TaxonomyID: 7}
	dict := wtype.NewDictionary()

	msg, err := objgraph.Marshal(tm, dict, obj, envelope)
	require.NoError(t, err)

	out, err := objgraph.Unmarshal(tm, msg, hintType)
	require.NoError(t, err)

	return out
}

func TestBeanSurrogateRoundTrip(t *testing.T) {
	tm, _ := newTypeMap()

	p := &Person{Name: "Ada", Age: 36}

	out := roundTrip(t, tm, p, reflect.TypeOf(Person{}))

	got, ok := out.(*Person)
	require.True(t, ok)
	require.Equal(t, "Ada", got.Name)
	require.Equal(t, int32(36), got.Age)
	require.Nil(t, got.Best)
}

func TestBeanSurrogateCyclicReference(t *testing.T) {
	tm, _ := newTypeMap()

	a := &Person{Name: "Alice", Age: 30}
	b := &Person{Name: "Bob", Age: 31}
	a.Best = b
	b.Best = a

	out := roundTrip(t, tm, a, reflect.TypeOf(Person{}))

	gotA, ok := out.(*Person)
	require.True(t, ok)
	require.Equal(t, "Alice", gotA.Name)
	require.NotNil(t, gotA.Best)
	require.Equal(t, "Bob", gotA.Best.Name)
	require.NotNil(t, gotA.Best.Best)
	require.Equal(t, "Alice", gotA.Best.Best.Name)

	// the cycle resolves to the same instance, not a fresh copy
	require.Same(t, gotA, gotA.Best.Best)
}

func TestBeanSurrogateSharedReference(t *testing.T) {
	tm, _ := newTypeMap()

	shared := &Person{Name: "Shared", Age: 40}
	root := &Person{Name: "Root", Age: 10, Best: shared}

	type pair struct {
		A *Person
		B *Person
	}

	tm.RegisterType(reflect.TypeOf(pair{}), "fudge.test.pair")

	p := pair{A: root, B: shared}

	out := roundTrip(t, tm, p, reflect.TypeOf(pair{}))

	gotPair, ok := out.(*pair)
	require.True(t, ok)
	require.Same(t, gotPair.A.Best, gotPair.B)
}

func TestListSurrogateRoundTrip(t *testing.T) {
	tm, _ := newTypeMap()

	in := []int{3, 1, 4, 1, 5}

	out := roundTrip(t, tm, in, reflect.TypeOf([]int{}))

	gotList, ok := out.([]int)
	require.True(t, ok)
	require.Equal(t, in, gotList)
}

func TestListSurrogateOfStructsRoundTrip(t *testing.T) {
	tm, _ := newTypeMap()

	in := []Person{{Name: "One", Age: 1}, {Name: "Two", Age: 2}}

	out := roundTrip(t, tm, in, reflect.TypeOf([]Person{}))

	gotList, ok := out.([]Person)
	require.True(t, ok)
	require.Len(t, gotList, 2)
	require.Equal(t, "One", gotList[0].Name)
	require.Equal(t, "Two", gotList[1].Name)
}

func TestDictionarySurrogateRoundTrip(t *testing.T) {
	tm, _ := newTypeMap()

	in := map[string]int32{"a": 1, "b": 2}

	out := roundTrip(t, tm, in, reflect.TypeOf(map[string]int32{}))

	gotMap, ok := out.(map[string]int32)
	require.True(t, ok)
	require.Equal(t, in, gotMap)
}

type classicBox struct {
	Label string
	Count int64
}

func (c classicBox) GetObjectData(info *objgraph.InfoBag, ctx *objgraph.WriteContext) error {
	if err := info.AddValue(ctx, "label", c.Label); err != nil {
		return err
	}

	return info.AddValue(ctx, "count", c.Count)
}

func (c *classicBox) SetObjectData(info *objgraph.InfoBag, ctx *objgraph.ReadContext) error {
	if v, ok, err := info.GetValue(ctx, "label", reflect.TypeOf("")); err != nil {
		return err
	} else if ok {
		c.Label = v.(string)
	}

	if v, ok, err := info.GetValue(ctx, "count", reflect.TypeOf(int64(0))); err != nil {
		return err
	} else if ok {
		c.Count = v.(int64)
	}

	return nil
}

func TestClassicInfoSurrogateRoundTrip(t *testing.T) {
	tm, _ := newTypeMap()

	in := classicBox{Label: "crate", Count: 9}

	out := roundTrip(t, tm, in, reflect.TypeOf(classicBox{}))

	got, ok := out.(*classicBox)
	require.True(t, ok)
	require.Equal(t, "crate", got.Label)
	require.Equal(t, int64(9), got.Count)
}

type hookBox struct {
	Payload string
}

func (h hookBox) SerializeFudge(msg *msgtree.Message, _ *objgraph.WriteContext) error {
	msg.Append(msgtree.Field{Name: "payload", HasName: true, Type: wtype.String, Value: h.Payload})
	return nil
}

func (h *hookBox) DeserializeFudge(msg *msgtree.Message, _ *objgraph.ReadContext) error {
	if f, ok := msg.First("payload"); ok {
		h.Payload = f.Value.(string)
	}

	return nil
}

func TestUserHookSurrogateRoundTrip(t *testing.T) {
	tm, _ := newTypeMap()

	in := hookBox{Payload: "raw"}

	out := roundTrip(t, tm, in, reflect.TypeOf(hookBox{}))

	got, ok := out.(*hookBox)
	require.True(t, ok)
	require.Equal(t, "raw", got.Payload)
}

func TestTypeMapSelectionOrderPrefersUserHook(t *testing.T) {
	tm, _ := newTypeMap()

	surrogate, err := tm.SurrogateFor(reflect.TypeOf(hookBox{}))
	require.NoError(t, err)
	require.IsType(t, objgraph.UserHookSurrogate{}, surrogate)
}

func TestTypeMapSelectionOrderPrefersClassicInfoOverBean(t *testing.T) {
	tm, _ := newTypeMap()

	surrogate, err := tm.SurrogateFor(reflect.TypeOf(classicBox{}))
	require.NoError(t, err)
	require.IsType(t, objgraph.ClassicInfoSurrogate{}, surrogate)
}

func TestUnmarshalUnresolvedTypeNameFails(t *testing.T) {
	tm := objgraph.NewDefaultTypeMap()

	msg := msgtree.New(0, 0, 0)
	msg.Append(msgtree.Field{HasOrdinal: true, Ordinal: -1, Type: wtype.String, Value: "no.such.type"})

	_, err := objgraph.Unmarshal(tm, msg, nil)
	require.Error(t, err)
}

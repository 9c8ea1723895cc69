package keyring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotName(t *testing.T) {
	assert.Equal(t, "CAPI_API_KEY", SlotName("CAPI_API_KEY", -1))
	assert.Equal(t, "CAPI_API_KEY", SlotName("CAPI_API_KEY", 0))
	assert.Equal(t, "CAPI_API_KEY_1", SlotName("CAPI_API_KEY", 1))
	assert.Equal(t, "CAPI_API_KEY_32", SlotName("CAPI_API_KEY", 32))
}

func TestBuildProbesSlots(t *testing.T) {
	src := MapSource{
		"CAPI_API_KEY":    "primary",
		"CAPI_API_KEY_1":  "",
		"CAPI_API_KEY_2":  "second",
		"CAPI_API_KEY_32": "last",
		"CAPI_API_KEY_33": "beyond-the-limit",
		"OTHER":           "unrelated",
	}

	ring := Build(src, "CAPI_API_KEY", 33)
	require.Equal(t, 3, ring.Len())

	names := make([]string, 0, ring.Len())
	for _, s := range ring.Slots() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"CAPI_API_KEY", "CAPI_API_KEY_2", "CAPI_API_KEY_32"}, names)

	assert.True(t, ring.IsValid("primary"))
	assert.True(t, ring.IsValid("second"))
	assert.True(t, ring.IsValid("last"))
	assert.False(t, ring.IsValid("beyond-the-limit"))
	assert.False(t, ring.IsValid("unrelated"))
}

func TestBuildEmptySource(t *testing.T) {
	ring := Build(MapSource{}, "CAPI_API_KEY", 33)
	assert.Equal(t, 0, ring.Len())
	assert.False(t, ring.IsValid("anything"))
	assert.False(t, ring.IsValid(""))
}

func TestBuildDefaultMax(t *testing.T) {
	src := make(MapSource)
	for n := 0; n < 40; n++ {
		src[SlotName("K", n)] = fmt.Sprintf("key-%d", n)
	}
	assert.Equal(t, DefaultMaxKeys, Build(src, "K", 0).Len())
	assert.Equal(t, 5, Build(src, "K", 5).Len())
}

func TestBuildSkipsDuplicates(t *testing.T) {
	ring := Build(MapSource{"K": "same", "K_1": "same", "K_2": "other"}, "K", 3)
	assert.Equal(t, 2, ring.Len())

	slot, ok := ring.Match("same")
	require.True(t, ok)
	assert.Equal(t, "K", slot)
}

func TestIsValidIsExact(t *testing.T) {
	ring := New("K", "Secret-Key")

	assert.True(t, ring.IsValid("Secret-Key"))
	for _, c := range []string{"", "secret-key", "Secret-Key ", " Secret-Key", "Secret-Ke", "Secret-Key2"} {
		assert.False(t, ring.IsValid(c), "%q", c)
	}
}

func TestMatchReportsSlot(t *testing.T) {
	ring := New("K", "a", "b", "c")

	slot, ok := ring.Match("c")
	require.True(t, ok)
	assert.Equal(t, "K_2", slot)

	_, ok = ring.Match("d")
	assert.False(t, ok)
}

func TestSlotLenHidesKey(t *testing.T) {
	ring := New("K", "twelve-chars")
	slots := ring.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, 12, slots[0].Len())
	assert.NotContains(t, fmt.Sprintf("%v", slots[0].Name), "twelve")
}

func TestNilRing(t *testing.T) {
	var ring *KeyRing
	assert.Equal(t, 0, ring.Len())
	assert.False(t, ring.IsValid("x"))
	assert.Nil(t, ring.Slots())
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func(name string) (string, bool) {
		if name == "K_1" {
			return "from-func", true
		}
		return "", false
	})
	ring := Build(src, "K", 2)
	assert.True(t, ring.IsValid("from-func"))
}

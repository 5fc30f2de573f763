package jobstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"laundry-reservation/internal/model"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, "헹굼", Lookup(model.MachineTypeWashing, "rinse").Label)
	assert.Equal(t, "무게 감지", Lookup(model.MachineTypeWashing, "weightSensing").Label)
	assert.Equal(t, "냉각", Lookup(model.MachineTypeDryer, "cooling").Label)
	assert.Equal(t, "구김 방지", Lookup(model.MachineTypeDryer, "wrinkleCare").Label)
}

func TestLookup_FallsBackToNone(t *testing.T) {
	assert.Equal(t, None, Lookup(model.MachineTypeWashing, ""))
	assert.Equal(t, None, Lookup(model.MachineTypeWashing, "bogus"))
	assert.Equal(t, None, Lookup(model.MachineTypeDryer, "spin"), "spin is a washer-only state")
	assert.Equal(t, None, Lookup("", "wash"))
}

func TestLookup_TotalOverDeclaredStates(t *testing.T) {
	assert.Len(t, States(model.MachineTypeWashing), 16)
	assert.Len(t, States(model.MachineTypeDryer), 12)
	for _, mt := range []model.MachineType{model.MachineTypeWashing, model.MachineTypeDryer} {
		for _, s := range States(mt) {
			info := Lookup(mt, s)
			assert.NotEmpty(t, info.Label, "%s/%s", mt, s)
			assert.NotEmpty(t, info.Color, "%s/%s", mt, s)
		}
	}
}

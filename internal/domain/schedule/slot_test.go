package schedule

import (
	"testing"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestValidateSlots(t *testing.T) {
	ok := []SlotInput{{"09:30", "10:00"}, {"09:00", "09:30"}}
	if err := ValidateSlots(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := map[string][]SlotInput{
		"format":   {{"9h", "10:00"}},
		"reversed": {{"10:00", "09:00"}},
		"empty":    {{"10:00", "10:00"}},
		"overlap":  {{"09:00", "09:45"}, {"09:30", "10:00"}},
	}
	for name, slots := range bad {
		if err := ValidateSlots(slots); !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
			t.Fatalf("%s: expected invalid_input, got %v", name, err)
		}
	}
}

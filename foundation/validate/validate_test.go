package validate_test

import (
	"testing"

	"github.com/ardanlabs/microchain/foundation/validate"
)

func Test_Check(t *testing.T) {
	type newNodes struct {
		Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
	}

	if err := validate.Check(newNodes{Nodes: []string{"http://10.0.0.1:5000"}}); err != nil {
		t.Fatalf("Should accept a valid value: %s", err)
	}

	err := validate.Check(newNodes{})
	if err == nil {
		t.Fatalf("Should reject a missing field.")
	}

	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get back field errors, got %T", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["nodes"]; !exists {
		t.Logf("got: %v", fields)
		t.Fatalf("Should report the json field name.")
	}
}

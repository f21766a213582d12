package bind

import (
	"net/http/httptest"
	"testing"

	perr "modelwatch/internal/platform/errors"
)

// shared filter shape for query tests
type filter struct {
	Source string `query:"source" json:"source" validate:"required"`
	Limit  int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	All    bool   `query:"all" json:"all"`
}

func TestParseQuery_Success(t *testing.T) {
	req := httptest.NewRequest("GET", "/?source=claude&limit=25&all=true", nil)
	got, err := ParseQuery[filter](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != "claude" || got.Limit != 25 || !got.All {
		t.Fatalf("got %+v", got)
	}
}

func TestParseQuery_MissingRequired(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=5", nil)
	_, err := ParseQuery[filter](req)
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error code, got %v (%v)", perr.CodeOf(err), err)
	}
	if w := perr.WireFrom(err); w.Field != "source" {
		t.Fatalf("expected the wire error to name the field, got %q", w.Field)
	}
}

func TestParseQuery_NonIntegerLimit(t *testing.T) {
	// a value that does not parse fails with the same code as one that
	// parses but breaks a rule, so both answer the same status
	req := httptest.NewRequest("GET", "/?source=claude&limit=lots", nil)
	_, err := ParseQuery[filter](req)
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error code, got %v (%v)", perr.CodeOf(err), err)
	}
	if w := perr.WireFrom(err); w.Field != "limit" {
		t.Fatalf("expected the wire error to name the field, got %q", w.Field)
	}
}

func TestParseQuery_NonBool(t *testing.T) {
	req := httptest.NewRequest("GET", "/?source=claude&all=maybe", nil)
	_, err := ParseQuery[filter](req)
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error code, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseQuery_LimitOutOfRange(t *testing.T) {
	req := httptest.NewRequest("GET", "/?source=claude&limit=5000", nil)
	_, err := ParseQuery[filter](req)
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation error code, got %v (%v)", perr.CodeOf(err), err)
	}
}

func TestParseQuery_UnknownParamsIgnored(t *testing.T) {
	req := httptest.NewRequest("GET", "/?source=azure&boom=1", nil)
	got, err := ParseQuery[filter](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != "azure" || got.Limit != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseQuery_TrimsWhitespace(t *testing.T) {
	req := httptest.NewRequest("GET", "/?source=%20bedrock%20", nil)
	got, err := ParseQuery[filter](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != "bedrock" {
		t.Fatalf("expected trimmed value, got %q", got.Source)
	}
}

func TestParseQuery_SkipsUntaggedFields(t *testing.T) {
	type mixed struct {
		Keep string `query:"keep" json:"keep"`
		Skip string `json:"skip"`
		Dash string `query:"-" json:"dash"`
	}
	req := httptest.NewRequest("GET", "/?keep=yes&skip=no&dash=no", nil)
	got, err := ParseQuery[mixed](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Keep != "yes" || got.Skip != "" || got.Dash != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseQuery_EmptyValueLeavesZero(t *testing.T) {
	req := httptest.NewRequest("GET", "/?source=claude&limit=", nil)
	got, err := ParseQuery[filter](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != 0 {
		t.Fatalf("expected zero limit, got %d", got.Limit)
	}
}

package urlparam

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", id.Hex())
	got, err := ObjectID(req, "id")
	if err != nil || got != id {
		t.Fatalf("ObjectID = %v, %v", got, err)
	}

	bad := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", "xyz")
	if _, err := ObjectID(bad, "id"); !apperr.Is(err, apperr.BadRequest) {
		t.Errorf("malformed id: got %v, want BadRequest", err)
	}
}

func TestQueryObjectID(t *testing.T) {
	if got, err := QueryObjectID(httptest.NewRequest("GET", "/", nil), "postId"); got != nil || err != nil {
		t.Errorf("absent: got %v, %v", got, err)
	}
	id := primitive.NewObjectID()
	got, err := QueryObjectID(httptest.NewRequest("GET", "/?postId="+id.Hex(), nil), "postId")
	if err != nil || got == nil || *got != id {
		t.Errorf("present: got %v, %v", got, err)
	}
	if _, err := QueryObjectID(httptest.NewRequest("GET", "/?postId=nope", nil), "postId"); !apperr.Is(err, apperr.BadRequest) {
		t.Errorf("malformed: got %v", err)
	}
}

func TestQueryBool(t *testing.T) {
	tests := []struct {
		q    string
		want *bool
		ok   bool
	}{
		{"", nil, true},
		{"?isRead=true", ptr(true), true},
		{"?isRead=0", ptr(false), true},
		{"?isRead=maybe", nil, false},
	}
	for _, tt := range tests {
		got, err := QueryBool(httptest.NewRequest("GET", "/"+tt.q, nil), "isRead")
		if (err == nil) != tt.ok {
			t.Errorf("%q: err=%v", tt.q, err)
			continue
		}
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("%q: got %v, want %v", tt.q, got, tt.want)
		}
	}
}

func ptr(b bool) *bool { return &b }

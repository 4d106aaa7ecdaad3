// Package urlparam reads ObjectIDs from chi route parameters and query strings.
package urlparam

import (
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID parses the route parameter name. A malformed value is BadRequest.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequestf("invalid " + name)
	}
	return oid, nil
}

// QueryObjectID parses an optional query parameter. Absent yields nil;
// malformed is BadRequest.
func QueryObjectID(r *http.Request, name string) (*primitive.ObjectID, error) {
	raw := query.Get(r, name)
	if raw == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperr.BadRequestf("invalid " + name)
	}
	return &oid, nil
}

// QueryBool parses an optional true/false query parameter.
func QueryBool(r *http.Request, name string) (*bool, error) {
	switch query.Get(r, name) {
	case "":
		return nil, nil
	case "true", "1":
		v := true
		return &v, nil
	case "false", "0":
		v := false
		return &v, nil
	}
	return nil, apperr.BadRequestf("invalid " + name)
}

// Package jsonio reads request bodies and writes JSON responses.
package jsonio

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/validation"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// Decode reads r.Body into dst. Malformed JSON is a BadRequest; fields dst
// does not declare are ignored.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.BadRequestf("request body is empty")
		}
		return apperr.Wrap(apperr.BadRequest, "malformed JSON body", err)
	}
	return nil
}

// DecodeOptional is Decode but leaves dst untouched when the body is empty.
func DecodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.BadRequest, "malformed JSON body", err)
	}
	return nil
}

// DecodeValid decodes and then validates dst's struct tags.
func DecodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := Decode(w, r, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// OK writes 200 with v.
func OK(w http.ResponseWriter, v interface{}) { Write(w, http.StatusOK, v) }

// Created writes 201 with v.
func Created(w http.ResponseWriter, v interface{}) { Write(w, http.StatusCreated, v) }

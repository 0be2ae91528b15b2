package middleware

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/advdv/bchain"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// DefaultBodyLimit is used by the body middleware when the given limit is not positive.
const DefaultBodyLimit = 1 << 20

// ErrNoJSONPayload is returned by [Decode] when no JSON body was stored on the request.
var ErrNoJSONPayload = errors.New("middleware: request has no JSON payload")

// JSONBody reads JSON request bodies of at most limit bytes, validates them and stores the raw
// bytes as a [json.RawMessage] in the request payload. Requests with another content type or
// an empty body pass through untouched. An oversized body fails with 413, malformed JSON with
// 400.
func JSONBody(limit int64) bchain.Handler {
	return bchain.HandlerFunc(func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		if r.Payload != nil || !hasMediaType(r, "application/json") {
			next(nil)
			return nil
		}

		body, err := readLimited(w, r, limit)
		if err != nil {
			return err
		}

		if len(body) == 0 {
			next(nil)
			return nil
		}

		if !gjson.ValidBytes(body) {
			return bchain.NewError(bchain.CodeBadRequest, errors.New("middleware: malformed JSON body"))
		}

		r.Payload = json.RawMessage(body)
		next(nil)

		return nil
	})
}

// FormBody parses url-encoded form bodies of at most limit bytes and stores the values as
// [url.Values] in the request payload. Other content types pass through.
func FormBody(limit int64) bchain.Handler {
	return bchain.HandlerFunc(func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		if r.Payload != nil || !hasMediaType(r, "application/x-www-form-urlencoded") {
			next(nil)
			return nil
		}

		body, err := readLimited(w, r, limit)
		if err != nil {
			return err
		}

		vals, err := url.ParseQuery(string(body))
		if err != nil {
			return bchain.NewError(bchain.CodeBadRequest, errors.Wrap(err, "middleware: malformed form body"))
		}

		r.Payload = vals
		next(nil)

		return nil
	})
}

// Decode unmarshals the JSON payload stored by [JSONBody] into a new T.
func Decode[T any](r *bchain.Request) (T, error) {
	var v T

	raw, ok := r.Payload.(json.RawMessage)
	if !ok {
		return v, bchain.NewError(bchain.CodeUnsupportedMediaType, ErrNoJSONPayload)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, bchain.NewError(bchain.CodeUnprocessableEntity, errors.Wrap(err, "middleware: decode payload"))
	}

	return v, nil
}

// JSONPath queries the JSON payload with gjson path syntax such as "user.name" or "items.#".
// The result does not exist when the request carries no JSON payload.
func JSONPath(r *bchain.Request, path string) gjson.Result {
	raw, ok := r.Payload.(json.RawMessage)
	if !ok {
		return gjson.Result{}
	}

	return gjson.GetBytes(raw, path)
}

// Form returns the form values stored by [FormBody], or nil.
func Form(r *bchain.Request) url.Values {
	vals, _ := r.Payload.(url.Values)
	return vals
}

func hasMediaType(r *bchain.Request, want string) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}

	mt, _, err := mime.ParseMediaType(ct)

	return err == nil && mt == want
}

func readLimited(w bchain.ResponseWriter, r *bchain.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, bchain.NewError(bchain.CodeRequestEntityTooLarge,
			errors.Newf("middleware: body exceeds %d bytes", tooLarge.Limit))
	case err != nil:
		return nil, bchain.NewError(bchain.CodeBadRequest, errors.Wrap(err, "middleware: read body"))
	}

	return body, nil
}

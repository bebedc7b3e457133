package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// requestBody is a defensively decoded JSON body. A missing, malformed or
// non-object body decodes to an empty map, never an error.
type requestBody map[string]interface{}

// decodeBody reads the request body as JSON. Numbers stay json.Number so a
// numeric meme id round-trips without float formatting.
func decodeBody(r *http.Request) requestBody {
	if r.Body == nil {
		return requestBody{}
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body requestBody
	if err := dec.Decode(&body); err != nil || body == nil {
		return requestBody{}
	}
	return body
}

// str returns the first present key coerced to a trimmed string.
func (b requestBody) str(keys ...string) string {
	for _, key := range keys {
		switch v := b[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// queryStr returns the first non-empty query parameter, trimmed.
func queryStr(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(r.URL.Query().Get(key)); s != "" {
			return s
		}
	}
	return ""
}

// pathStr returns the first non-empty chi path parameter, trimmed.
func pathStr(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(chi.URLParam(r, key)); s != "" {
			return s
		}
	}
	return ""
}

// bodyIdentifier extracts the user identifier from the body alone, the way
// the auth endpoints read it: email wins over username, trimmed, lowercased.
func bodyIdentifier(body requestBody) string {
	return strings.ToLower(body.str("email", "username"))
}

// requestIdentifier extracts the user identifier with the meme-endpoint
// precedence: query over body over path.
func requestIdentifier(r *http.Request, body requestBody) string {
	id := queryStr(r, "email", "username")
	if id == "" {
		id = body.str("email", "username")
	}
	if id == "" {
		id = pathStr(r, "email", "username")
	}
	return strings.ToLower(id)
}

// requestMemeID extracts the meme id with its precedence: body over query
// over path.
func requestMemeID(r *http.Request, body requestBody) string {
	if id := body.str("memeId", "meme_id"); id != "" {
		return id
	}
	if id := queryStr(r, "memeId", "meme_id"); id != "" {
		return id
	}
	return pathStr(r, "memeId")
}

// requestPrivacy extracts the privacy value, body over query over path,
// lowercased.
func requestPrivacy(r *http.Request, body requestBody) string {
	p := body.str("privacy")
	if p == "" {
		p = queryStr(r, "privacy")
	}
	if p == "" {
		p = pathStr(r, "privacy")
	}
	return strings.ToLower(p)
}

// queryInt parses an integer query parameter; anything unparseable yields 0,
// the "not supplied" marker the pagination policy expects.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

package handlers

import (
	"encoding/json"
	"strconv"

	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/m1z23r/drift/pkg/drift"
)

// pathID reads a positive integer path parameter, answering 400 when it is not
// one.
func pathID(c *drift.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.BadRequest("invalid " + name)
		return 0, false
	}
	return id, true
}

// idList decodes raw as a list of integer ids. An absent value is an empty list.
func idList(raw json.RawMessage, field string) ([]int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, apperr.Newf(apperr.ErrCodeValidation, "%s must be in a list of integers", field)
	}
	return ids, nil
}

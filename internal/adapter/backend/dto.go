package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// flexID accepts an identifier sent as either a JSON string or number
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", data)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}

// entryDTO is one element of GET /games
type entryDTO struct {
	ID         flexID `json:"id"`
	Title      string `json:"title"`
	CoverImage string `json:"coverImage"`
	Status     string `json:"status"`
}

// hitDTO is one catalog search result
type hitDTO struct {
	ID              flexID `json:"id"`
	Name            string `json:"name"`
	BackgroundImage string `json:"background_image"`
}

// searchResponse is the body of GET /games/search
type searchResponse struct {
	Results []hitDTO `json:"results"`
}

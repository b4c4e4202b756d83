package abijson

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// document mirrors the JSON program interface.
type document struct {
	Types         []typeDeclaration `json:"types"`
	Functions     []functionDecl    `json:"functions"`
	LoggedTypes   []loggedType      `json:"loggedTypes"`
	MessagesTypes []messageType     `json:"messagesTypes"`
	Configurables []configurable    `json:"configurables"`
}

type typeDeclaration struct {
	Type           string            `json:"type"`
	Components     []typeApplication `json:"components"`
	TypeParameters []int             `json:"typeParameters"`
	TypeID         int               `json:"typeId"`
}

// typeApplication is a use of a declared type, with generic arguments.
type typeApplication struct {
	Name          string            `json:"name"`
	TypeArguments []typeApplication `json:"typeArguments"`
	Type          int               `json:"type"`
}

type functionDecl struct {
	Name   string            `json:"name"`
	Inputs []typeApplication `json:"inputs"`
	Output typeApplication   `json:"output"`
}

type loggedType struct {
	LoggedType typeApplication `json:"loggedType"`
	LogID      id              `json:"logId"`
}

type messageType struct {
	MessageType typeApplication `json:"messageType"`
	MessageID   id              `json:"messageId"`
}

type configurable struct {
	Name             string          `json:"name"`
	ConfigurableType typeApplication `json:"configurableType"`
	Offset           uint64          `json:"offset"`
}

// id accepts both numeric and string-encoded identifiers.
type id uint64

func (i *id) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		*i = id(v)
		return nil
	}
	var v uint64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*i = id(v)
	return nil
}

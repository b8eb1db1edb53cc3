package numjson

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/json"
	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// Unmarshal parses data as a single JSON value. Objects become *Object,
// arrays become []any, integers become int64, other numbers float64, and null
// becomes nil.
func Unmarshal(data []byte) (any, error) {
	in := parse.NewInputBytes(data)
	defer in.Restore()
	d := &decoder{in: in, p: json.NewParser(in)}

	gt, text := d.p.Next()
	v, err := d.value(gt, text)
	if err != nil {
		return nil, err
	}
	if gt, _ := d.p.Next(); gt != json.ErrorGrammar {
		return nil, d.syntax("unexpected data after top-level value", nil)
	}
	if err := d.p.Err(); err != io.EOF {
		return nil, d.syntax("", err)
	}
	return v, nil
}

type decoder struct {
	in *parse.Input
	p  *json.Parser
}

func (d *decoder) syntax(msg string, cause error) error {
	var perr *parse.Error
	if errors.As(cause, &perr) {
		msg = perr.Message
	} else if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &SyntaxError{Offset: d.in.Offset(), Msg: msg, Cause: cause}
}

func (d *decoder) value(gt json.GrammarType, text []byte) (any, error) {
	switch gt {
	case json.ErrorGrammar:
		if err := d.p.Err(); err != nil && err != io.EOF {
			return nil, d.syntax("", err)
		}
		return nil, d.syntax("unexpected end of input", io.ErrUnexpectedEOF)
	case json.StartObjectGrammar:
		obj := NewObject()
		for {
			gt, text := d.p.Next()
			switch gt {
			case json.EndObjectGrammar:
				return obj, nil
			case json.StringGrammar:
				key, err := d.string(text)
				if err != nil {
					return nil, err
				}
				gt, text = d.p.Next()
				v, err := d.value(gt, text)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			default:
				_, err := d.value(gt, text)
				if err == nil {
					err = d.syntax("expected object key", nil)
				}
				return nil, err
			}
		}
	case json.StartArrayGrammar:
		arr := []any{}
		for {
			gt, text := d.p.Next()
			if gt == json.EndArrayGrammar {
				return arr, nil
			}
			v, err := d.value(gt, text)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case json.StringGrammar:
		return d.string(text)
	case json.NumberGrammar:
		return d.number(text)
	case json.LiteralGrammar:
		switch string(text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		return nil, d.syntax("unknown literal "+string(text), nil)
	}
	return nil, d.syntax("unexpected "+gt.String(), nil)
}

func (d *decoder) string(text []byte) (string, error) {
	if len(text) >= 2 && bytes.IndexByte(text, '\\') < 0 {
		return string(text[1 : len(text)-1]), nil
	}
	var s string
	if err := stdjson.Unmarshal(text, &s); err != nil {
		return "", d.syntax("invalid string", err)
	}
	return s, nil
}

func (d *decoder) number(text []byte) (any, error) {
	if bytes.IndexAny(text, ".eE") < 0 {
		if n, size := pstrconv.ParseInt(text); size == len(text) {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return nil, d.syntax("invalid number "+string(text), err)
	}
	return f, nil
}

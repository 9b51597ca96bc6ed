package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// JSON encoding. Variants without fields encode as their bare name
// ("True"); all others encode as {"variant": name, "fields": [...]}.
// Sensors and commands encode as their names. Non-finite constants encode
// as the strings "NaN", "+Inf" and "-Inf".

type variantOut struct {
	Variant string `json:"variant"`
	Fields  []any  `json:"fields"`
}

type variantIn struct {
	Variant string            `json:"variant"`
	Fields  []json.RawMessage `json:"fields"`
}

func decodeVariant(data []byte) (variantIn, error) {
	var v variantIn
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &v.Variant); err != nil {
			return v, err
		}
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	if v.Variant == "" {
		return v, fmt.Errorf("%w: missing variant", ErrInvalidNode)
	}
	return v, nil
}

func (v variantIn) arity(n int) error {
	if len(v.Fields) != n {
		return fmt.Errorf("%w: %s expects %d fields, got %d", ErrInvalidNode, v.Variant, n, len(v.Fields))
	}
	return nil
}

func (s Sensor) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: sensor %d", ErrInvalidNode, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Sensor) UnmarshalText(text []byte) error {
	for i, name := range sensorNames {
		if name == string(text) {
			*s = Sensor(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown sensor %q", ErrInvalidNode, text)
}

func (c Command) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: command %d", ErrInvalidNode, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Command) UnmarshalText(text []byte) error {
	for i, name := range commandNames {
		if name == string(text) {
			*c = Command(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown command %q", ErrInvalidNode, text)
}

func (p *Program) MarshalJSON() ([]byte, error) {
	if p.Kind == ProgramIf {
		return json.Marshal(variantOut{Variant: "If", Fields: []any{p.Cond, p.Then, p.Else}})
	}
	return json.Marshal(variantOut{Variant: "Command", Fields: []any{p.Command}})
}

func (p *Program) UnmarshalJSON(data []byte) error {
	v, err := decodeVariant(data)
	if err != nil {
		return err
	}
	switch v.Variant {
	case "If":
		if err := v.arity(3); err != nil {
			return err
		}
		out := Program{Kind: ProgramIf, Cond: &Condition{}, Then: &Program{}, Else: &Program{}}
		if err := json.Unmarshal(v.Fields[0], out.Cond); err != nil {
			return err
		}
		if err := json.Unmarshal(v.Fields[1], out.Then); err != nil {
			return err
		}
		if err := json.Unmarshal(v.Fields[2], out.Else); err != nil {
			return err
		}
		*p = out
	case "Command":
		if err := v.arity(1); err != nil {
			return err
		}
		out := Program{Kind: ProgramCommand}
		if err := json.Unmarshal(v.Fields[0], &out.Command); err != nil {
			return err
		}
		*p = out
	default:
		return fmt.Errorf("%w: unknown program variant %q", ErrInvalidNode, v.Variant)
	}
	return nil
}

func (c *Condition) MarshalJSON() ([]byte, error) {
	name := c.Kind.String()
	switch {
	case c.Kind == CondTrue || c.Kind == CondFalse:
		return json.Marshal(name)
	case c.Kind == CondNot:
		return json.Marshal(variantOut{Variant: name, Fields: []any{c.A}})
	case c.Kind.Logical():
		return json.Marshal(variantOut{Variant: name, Fields: []any{c.A, c.B}})
	case c.Kind.Comparison():
		return json.Marshal(variantOut{Variant: name, Fields: []any{c.L, c.R}})
	}
	return nil, fmt.Errorf("%w: condition kind %d", ErrInvalidNode, int(c.Kind))
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	v, err := decodeVariant(data)
	if err != nil {
		return err
	}
	kind := ConditionKind(-1)
	for i, name := range conditionNames {
		if name == v.Variant {
			kind = ConditionKind(i)
		}
	}
	out := Condition{Kind: kind}
	switch {
	case kind == CondTrue || kind == CondFalse:
		if len(v.Fields) != 0 {
			return v.arity(0)
		}
	case kind == CondNot:
		if err := v.arity(1); err != nil {
			return err
		}
		out.A = &Condition{}
		if err := json.Unmarshal(v.Fields[0], out.A); err != nil {
			return err
		}
	case kind.Logical():
		if err := v.arity(2); err != nil {
			return err
		}
		out.A, out.B = &Condition{}, &Condition{}
		if err := json.Unmarshal(v.Fields[0], out.A); err != nil {
			return err
		}
		if err := json.Unmarshal(v.Fields[1], out.B); err != nil {
			return err
		}
	case kind.Comparison():
		if err := v.arity(2); err != nil {
			return err
		}
		out.L, out.R = &Expression{}, &Expression{}
		if err := json.Unmarshal(v.Fields[0], out.L); err != nil {
			return err
		}
		if err := json.Unmarshal(v.Fields[1], out.R); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown condition variant %q", ErrInvalidNode, v.Variant)
	}
	*c = out
	return nil
}

func (e *Expression) MarshalJSON() ([]byte, error) {
	name := e.Kind.String()
	switch {
	case e.Kind == ExprConstant:
		if math.IsNaN(e.Const) || math.IsInf(e.Const, 0) {
			return json.Marshal(variantOut{Variant: name, Fields: []any{strconv.FormatFloat(e.Const, 'g', -1, 64)}})
		}
		return json.Marshal(variantOut{Variant: name, Fields: []any{e.Const}})
	case e.Kind == ExprSensor:
		return json.Marshal(variantOut{Variant: name, Fields: []any{e.Sensor}})
	case e.Kind.Arithmetic():
		return json.Marshal(variantOut{Variant: name, Fields: []any{e.L, e.R}})
	}
	return nil, fmt.Errorf("%w: expression kind %d", ErrInvalidNode, int(e.Kind))
}

func (e *Expression) UnmarshalJSON(data []byte) error {
	v, err := decodeVariant(data)
	if err != nil {
		return err
	}
	kind := ExpressionKind(-1)
	for i, name := range expressionNames {
		if name == v.Variant {
			kind = ExpressionKind(i)
		}
	}
	out := Expression{Kind: kind}
	switch {
	case kind == ExprConstant:
		if err := v.arity(1); err != nil {
			return err
		}
		if out.Const, err = decodeNumber(v.Fields[0]); err != nil {
			return err
		}
	case kind == ExprSensor:
		if err := v.arity(1); err != nil {
			return err
		}
		if err := json.Unmarshal(v.Fields[0], &out.Sensor); err != nil {
			return err
		}
	case kind.Arithmetic():
		if err := v.arity(2); err != nil {
			return err
		}
		out.L, out.R = &Expression{}, &Expression{}
		if err := json.Unmarshal(v.Fields[0], out.L); err != nil {
			return err
		}
		if err := json.Unmarshal(v.Fields[1], out.R); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown expression variant %q", ErrInvalidNode, v.Variant)
	}
	*e = out
	return nil
}

func decodeNumber(raw json.RawMessage) (Number, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: constant %s", ErrInvalidNode, raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: constant %q", ErrInvalidNode, s)
	}
	return f, nil
}

package instantdb

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		tests := []struct {
			name string
			v    any
		}{
			{"empty mapping", map[string]any{}},
			{"scalars", map[string]any{"s": "x", "n": 1.5, "b": true, "z": nil}},
			{"nested", map[string]any{"a": []any{1.0, "two", map[string]any{"three": 3.0}}}},
			{"html", map[string]any{"h": "<b>&</b>"}},
			{"empty list", []any{}},
			{"list", []any{map[string]any{"a": 1.0}, "x", nil}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				data, err := Encode(tt.v)
				if err != nil {
					t.Fatalf("Encode failed: %v", err)
				}
				var got any
				if _, ok := tt.v.(map[string]any); ok {
					got, err = DecodeMapping(data)
				} else {
					got, err = DecodeList[any](data)
				}
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if !reflect.DeepEqual(got, tt.v) {
					t.Errorf("round trip = %#v, want %#v", got, tt.v)
				}
			})
		}
	})

	t.Run("Encode", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			got, err := Encode(map[string]any{"b": []any{1.0, "<x>"}, "a": map[string]any{}})
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if want := `{"a":{},"b":[1,"<x>"]}`; string(got) != want {
				t.Errorf("Encode() = %s, want %s", got, want)
			}
		})
		t.Run("invalid", func(t *testing.T) {
			for _, v := range []any{math.NaN(), make(chan int), map[string]any{"f": func() {}}} {
				if _, err := Encode(v); !errors.Is(err, ErrFormat) {
					t.Errorf("Encode(%T) error = %v, want ErrFormat", v, err)
				}
			}
		})
	})

	t.Run("DecodeMapping", func(t *testing.T) {
		t.Run("invalid", func(t *testing.T) {
			for _, in := range []string{"", "{", "[]", "null", "1", `"x"`, "true"} {
				if _, err := DecodeMapping([]byte(in)); !errors.Is(err, ErrFormat) {
					t.Errorf("DecodeMapping(%q) error = %v, want ErrFormat", in, err)
				}
			}
		})
	})

	t.Run("DecodeList", func(t *testing.T) {
		t.Run("typed", func(t *testing.T) {
			type row struct {
				A int `json:"a"`
			}
			got, err := DecodeList[row]([]byte(` [{"a":1},{"a":2}] `))
			if err != nil {
				t.Fatalf("DecodeList failed: %v", err)
			}
			if want := []row{{1}, {2}}; !reflect.DeepEqual(got, want) {
				t.Errorf("DecodeList() = %+v, want %+v", got, want)
			}
		})
		t.Run("invalid", func(t *testing.T) {
			for _, in := range []string{"", "[", "{}", "null", "1", "[1,]"} {
				if _, err := DecodeList[any]([]byte(in)); !errors.Is(err, ErrFormat) {
					t.Errorf("DecodeList(%q) error = %v, want ErrFormat", in, err)
				}
			}
		})
	})
}

func TestValue(t *testing.T) {
	t.Run("TypeOfValue", func(t *testing.T) {
		type s struct {
			A int `json:"a"`
		}
		var nilPtr *s
		tests := []struct {
			name string
			v    any
			want Type
		}{
			{"string", "x", TypeString},
			{"float", 1.5, TypeNumber},
			{"int", 3, TypeNumber},
			{"bool", false, TypeBoolean},
			{"nil", nil, TypeNull},
			{"nil pointer", nilPtr, TypeNull},
			{"array", []any{1}, TypeArray},
			{"typed slice", []string{"a"}, TypeArray},
			{"object", map[string]any{}, TypeObject},
			{"struct", s{A: 1}, TypeObject},
			{"unencodable", make(chan int), TypeUndefined},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := TypeOfValue(tt.v); got != tt.want {
					t.Errorf("TypeOfValue(%#v) = %q, want %q", tt.v, got, tt.want)
				}
			})
		}
	})

	t.Run("Equal", func(t *testing.T) {
		tests := []struct {
			name string
			a, b any
			want bool
		}{
			{"int float", 2, 2.0, true},
			{"strings", "a", "a", true},
			{"different types", "1", 1, false},
			{"nested", map[string]any{"a": []int{1, 2}}, map[string]any{"a": []any{1.0, 2.0}}, true},
			{"order matters", []any{1, 2}, []any{2, 1}, false},
			{"nils", nil, nil, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := Equal(tt.a, tt.b); got != tt.want {
					t.Errorf("Equal(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
				}
			})
		}
	})

	t.Run("cloneMapping", func(t *testing.T) {
		orig := map[string]any{"a": []any{1.0, map[string]any{"b": 2.0}}}
		c := cloneMapping(orig)
		c["a"].([]any)[1].(map[string]any)["b"] = 3.0
		c["x"] = true
		if got := orig["a"].([]any)[1].(map[string]any)["b"]; got != 2.0 {
			t.Errorf("original mutated: b = %v", got)
		}
		if _, ok := orig["x"]; ok {
			t.Error("original gained key x")
		}
	})
}

func TestErrors(t *testing.T) {
	inner := formatError("decode", "invalid JSON", nil)
	err := readError("db.json", inner)
	if !errors.Is(err, ErrStorage) {
		t.Error("read error should match ErrStorage")
	}
	if !errors.Is(err, ErrFormat) {
		t.Error("read error wrapping a parse failure should match ErrFormat")
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Error("read error should not match ErrTypeMismatch")
	}
	if !IsKind(err, KindFormat) {
		t.Error("IsKind(err, KindFormat) = false")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindStorage || e.Path != "db.json" {
		t.Errorf("errors.As = %+v", e)
	}
	if want := "db.json: read: failed to read database file: decode: invalid JSON"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

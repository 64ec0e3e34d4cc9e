package decode

import "testing"

type samplePayload struct {
	RoomID string   `json:"room_id"`
	Port   int      `json:"port"`
	Tags   []string `json:"tags"`
}

func TestDecodeMapWeakTyping(t *testing.T) {
	m := map[string]any{
		"room_id": "r1",
		"port":    "8080", // string number, as env vars arrive
		"tags":    []any{"a", "b"},
		"extra":   "ignored",
	}

	out, err := DecodeMap[samplePayload](m)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RoomID != "r1" || out.Port != 8080 {
		t.Fatalf("decoded = %+v", out)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "a" {
		t.Fatalf("tags = %v", out.Tags)
	}
}

func TestDecodeMapFloatToInt(t *testing.T) {
	out, err := DecodeMap[samplePayload](map[string]any{"port": float64(9000)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Port != 9000 {
		t.Fatalf("port = %d", out.Port)
	}
}

func TestDecodeJSON(t *testing.T) {
	out, err := DecodeJSON[samplePayload]([]byte(`{"room_id":"r2","port":1.0}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RoomID != "r2" || out.Port != 1 {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestDecodeMapNil(t *testing.T) {
	if _, err := DecodeMap[samplePayload](nil); err == nil {
		t.Fatal("nil map must error")
	}
}

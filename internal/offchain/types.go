package offchain

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// StorageKind はオフチェーンストレージの種別
type StorageKind string

const (
	// KindPersistent は再起動後も保持される領域
	KindPersistent StorageKind = "PERSISTENT"
	// KindLocal はセッション内のみの領域
	KindLocal StorageKind = "LOCAL"
)

// ParseStorageKind は文字列から種別を取得する
func ParseStorageKind(s string) (StorageKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(KindPersistent):
		return KindPersistent, nil
	case string(KindLocal):
		return KindLocal, nil
	default:
		return "", fmt.Errorf("unknown storage kind: %s", s)
	}
}

// Key はストレージキー（不透明なバイト列）
type Key []byte

// ParseKey は16進文字列（0x接頭辞は任意）からキーを作る
func ParseKey(s string) (Key, error) {
	b, err := decodeHex(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid storage key %q: %w", s, err)
	}
	return Key(b), nil
}

// MustParseKey はParseKeyの失敗時にpanicする版
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String は0x付きの16進表現を返す
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k)
}

// Value はノードが返した値。存在しないことも値として表す。
type Value struct {
	data    []byte
	present bool
}

// Absent は値が無いことを表すValueを返す
func Absent() Value {
	return Value{}
}

// Present はバイト列を持つValueを返す
func Present(data []byte) Value {
	b := make([]byte, len(data))
	copy(b, data)
	return Value{data: b, present: true}
}

// IsPresent は値が存在するかどうかを返す
func (v Value) IsPresent() bool {
	return v.present
}

// Bytes は値のバイト列を返す（存在しない場合はnil）
func (v Value) Bytes() []byte {
	return v.data
}

// Format は値の表示形式
type Format string

const (
	FormatHex  Format = "hex"
	FormatText Format = "text"
)

// ParseFormat は文字列から表示形式を取得する
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatHex):
		return FormatHex, nil
	case string(FormatText):
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// AbsentText は値が存在しない場合の表示
const AbsentText = "null"

// FormatValue は値を表示用の文字列にする。
// textはクォートされるため、AbsentTextと衝突しない。
func FormatValue(v Value, f Format) string {
	if !v.present {
		return AbsentText
	}
	if f == FormatText {
		return strconv.Quote(string(v.data))
	}
	return "0x" + hex.EncodeToString(v.data)
}

func decodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd length hex string")
	}
	return hex.DecodeString(s)
}

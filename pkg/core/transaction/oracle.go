package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/nspcc-dev/neotx/pkg/io"
)

// OracleResponseCode is the status of an oracle request.
type OracleResponseCode byte

// OracleResponse is the attribute carrying an oracle answer, only oracle
// nodes put it into transactions.
type OracleResponse struct {
	ID     uint64             `json:"id"`
	Code   OracleResponseCode `json:"code"`
	Result []byte             `json:"result"`
}

// MaxOracleResultSize is the maximum allowed oracle answer size.
const MaxOracleResultSize = math.MaxUint16

// Enumeration of possible oracle response types.
const (
	Success                 OracleResponseCode = 0x00
	ProtocolNotSupported    OracleResponseCode = 0x10
	ConsensusUnreachable    OracleResponseCode = 0x12
	NotFound                OracleResponseCode = 0x14
	Timeout                 OracleResponseCode = 0x16
	Forbidden               OracleResponseCode = 0x18
	ResponseTooLarge        OracleResponseCode = 0x1a
	InsufficientFunds       OracleResponseCode = 0x1c
	ContentTypeNotSupported OracleResponseCode = 0x1f
	Error                   OracleResponseCode = 0xff
)

var responseCodeNames = map[OracleResponseCode]string{
	Success:                 "Success",
	ProtocolNotSupported:    "ProtocolNotSupported",
	ConsensusUnreachable:    "ConsensusUnreachable",
	NotFound:                "NotFound",
	Timeout:                 "Timeout",
	Forbidden:               "Forbidden",
	ResponseTooLarge:        "ResponseTooLarge",
	InsufficientFunds:       "InsufficientFunds",
	ContentTypeNotSupported: "ContentTypeNotSupported",
	Error:                   "Error",
}

// IsValid checks if c is valid response code.
func (c OracleResponseCode) IsValid() bool {
	_, ok := responseCodeNames[c]
	return ok
}

func (c OracleResponseCode) String() string {
	if s, ok := responseCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("OracleResponseCode(%d)", byte(c))
}

// MarshalJSON implements json.Marshaler interface.
func (c OracleResponseCode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (c *OracleResponseCode) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	for code, name := range responseCodeNames {
		if strings.EqualFold(name, js) {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidResponseCode, js)
}

// DecodeBinary implements io.Serializable interface.
func (r *OracleResponse) DecodeBinary(br *io.BinReader) {
	r.ID = br.ReadU64LE()
	r.Code = OracleResponseCode(br.ReadB())
	if br.Err == nil && !r.Code.IsValid() {
		br.Err = fmt.Errorf("%w: %d", ErrInvalidResponseCode, byte(r.Code))
	}
	r.Result = br.ReadVarBytes(MaxOracleResultSize)
	if br.Err == nil {
		br.Err = r.Validate()
	}
}

// EncodeBinary implements io.Serializable interface.
func (r *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.ID)
	w.WriteB(byte(r.Code))
	w.WriteVarBytes(r.Result)
}

func (r *OracleResponse) toJSONMap(m map[string]any) {
	m["id"] = r.ID
	m["code"] = r.Code
	m["result"] = r.Result
}

// Validate checks the response code and that non-successful responses carry
// no result.
func (r *OracleResponse) Validate() error {
	if !r.Code.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidResponseCode, byte(r.Code))
	}
	if len(r.Result) > MaxOracleResultSize {
		return fmt.Errorf("%w: %d bytes of oracle result", ErrInvalidAttribute, len(r.Result))
	}
	if r.Code != Success && len(r.Result) > 0 {
		return ErrInvalidResult
	}
	return nil
}

// Copy creates a deep copy of the OracleResponse.
func (r *OracleResponse) Copy() *OracleResponse {
	cp := *r
	cp.Result = bytes.Clone(r.Result)
	return &cp
}

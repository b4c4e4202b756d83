package transcoder

import (
	"encoding/binary"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder/internal/abi"
	"github.com/wippyai/vm-abi/transcoder/internal/layout"
)

// Decoder limits. Both guard against hostile type graphs and inputs.
const (
	DefaultMaxDepth  = 10
	DefaultMaxTokens = 500
)

// DecoderConfig bounds a single decode call. Zero fields take the defaults.
type DecoderConfig struct {
	// MaxDepth limits nesting of arrays, tuples, structs, enums and vectors.
	MaxDepth int
	// MaxTokens limits the number of leaf values produced.
	MaxTokens int
}

func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{MaxDepth: DefaultMaxDepth, MaxTokens: DefaultMaxTokens}
}

func (c DecoderConfig) withDefaults() DecoderConfig {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

// Decoder turns bytes back into tokens. Counters live in each call, so a
// Decoder is safe for concurrent use.
type Decoder struct {
	config DecoderConfig
}

func NewDecoder(cfg DecoderConfig) *Decoder {
	return &Decoder{config: cfg.withDefaults()}
}

// Config returns the effective limits.
func (d *Decoder) Config() DecoderConfig {
	return d.config
}

// guard tracks depth and leaf counts for one decode call.
type guard struct {
	cfg    DecoderConfig
	depth  int
	tokens int
}

func (g *guard) enter(path []string) error {
	g.depth++
	if g.depth > g.cfg.MaxDepth {
		Logger().Debug("decode depth limit reached",
			zap.Int("max_depth", g.cfg.MaxDepth),
			zap.Strings("path", path))
		return errors.LimitExceeded(path, errors.LimitDepth, g.cfg.MaxDepth)
	}
	return nil
}

func (g *guard) exit() {
	g.depth--
}

func (g *guard) leaf(path []string) error {
	g.tokens++
	if g.tokens > g.cfg.MaxTokens {
		Logger().Debug("decode token limit reached",
			zap.Int("max_tokens", g.cfg.MaxTokens),
			zap.Strings("path", path))
		return errors.LimitExceeded(path, errors.LimitTokens, g.cfg.MaxTokens)
	}
	return nil
}

// reserve fails when n declared elements cannot fit the remaining token
// budget. Every element of non-zero width yields at least one leaf.
func (g *guard) reserve(n uint64, path []string) error {
	if remaining := g.cfg.MaxTokens - g.tokens; n > uint64(remaining) {
		Logger().Debug("declared length exceeds token budget",
			zap.Uint64("length", n),
			zap.Int("remaining", remaining),
			zap.Strings("path", path))
		return errors.LimitExceeded(path, errors.LimitTokens, g.cfg.MaxTokens)
	}
	return nil
}

// Decode decodes return data: the values of params laid out back to back.
// A heap value is the last thing it reads and consumes everything that
// remains. Heap containers nested in vectors, arrays or enum variants are
// rejected before any byte is read; DecodeResolved handles those.
func (d *Decoder) Decode(params []ParamType, data []byte) ([]Token, error) {
	if err := layout.CheckNestedHeap(params); err != nil {
		Logger().Debug("rejected nested heap type", zap.Error(err))
		return nil, err
	}

	g := &guard{cfg: d.config}
	out := make([]Token, 0, len(params))
	var offset uint64

	for i, p := range params {
		tok, n, err := d.decodeParam(p, data[offset:], g, []string{"arg[" + strconv.Itoa(i) + "]"})
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		offset += n
	}
	return out, nil
}

// DecodeSingle decodes one value of type p.
func (d *Decoder) DecodeSingle(p ParamType, data []byte) (Token, error) {
	toks, err := d.Decode([]ParamType{p}, data)
	if err != nil {
		return Token{}, err
	}
	return toks[0], nil
}

func (d *Decoder) decodeParam(p ParamType, data []byte, g *guard, path []string) (Token, uint64, error) {
	switch p.Kind {
	case KindUnit, KindBool, KindU8, KindU16, KindU32, KindU64, KindU128, KindU256, KindB256:
		if err := g.leaf(path); err != nil {
			return Token{}, 0, err
		}
		width := p.EncodingWidth() * abi.WordSize
		b, err := take(data, width, path)
		if err != nil {
			return Token{}, 0, err
		}
		tok, err := scalarToken(p.Kind, b, path)
		return tok, width, err

	case KindArray, KindTuple, KindStruct:
		if err := g.enter(path); err != nil {
			return Token{}, 0, err
		}
		defer g.exit()
		return d.decodeSequence(p, data, g, path)

	case KindStringArray:
		if err := g.leaf(path); err != nil {
			return Token{}, 0, err
		}
		width := abi.PadLen(p.Len)
		b, err := take(data, width, path)
		if err != nil {
			return Token{}, 0, err
		}
		tok, err := stringArrayToken(b[:p.Len], path)
		return tok, width, err

	case KindStringSlice:
		if err := g.leaf(path); err != nil {
			return Token{}, 0, err
		}
		if !utf8.Valid(data) {
			return Token{}, 0, errors.InvalidUTF8(errors.PhaseDecode, path, data)
		}
		return StringSliceToken(string(data)), uint64(len(data)), nil

	case KindBytes:
		if err := g.leaf(path); err != nil {
			return Token{}, 0, err
		}
		return BytesToken(append([]byte{}, data...)), uint64(len(data)), nil

	case KindRawSlice:
		count, err := layout.ElementCount(U64(), uint64(len(data)))
		if err != nil {
			return Token{}, 0, errors.WithPath(errors.PhaseDecode, err, path...)
		}
		words, err := rawWords(data, count, g, path)
		if err != nil {
			return Token{}, 0, err
		}
		return RawSliceToken(words...), uint64(len(data)), nil

	case KindVector:
		if err := g.enter(path); err != nil {
			return Token{}, 0, err
		}
		defer g.exit()
		return d.decodeVector(p, data, g, path)

	case KindEnum:
		if err := g.enter(path); err != nil {
			return Token{}, 0, err
		}
		defer g.exit()
		return d.decodeEnum(p, data, g, path)

	default:
		return Token{}, 0, errors.UnsupportedType(errors.PhaseDecode, path, "cannot decode type "+p.String())
	}
}

func (d *Decoder) decodeSequence(p ParamType, data []byte, g *guard, path []string) (Token, uint64, error) {
	var items []Token
	var offset uint64

	if p.Kind == KindArray {
		if p.Elem == nil {
			return Token{}, 0, errors.InvalidData(errors.PhaseDecode, path, "array without element type")
		}
		if err := g.reserve(p.Len, path); err != nil {
			return Token{}, 0, err
		}
		items = make([]Token, 0, p.Len)
		for i := uint64(0); i < p.Len; i++ {
			tok, n, err := d.decodeParam(*p.Elem, data[offset:], g, appendIndex(path, int(i)))
			if err != nil {
				return Token{}, 0, err
			}
			items = append(items, tok)
			offset += n
		}
		return ArrayToken(items...), offset, nil
	}

	items = make([]Token, 0, len(p.Fields))
	for i, f := range p.Fields {
		tok, n, err := d.decodeParam(f.Type, data[offset:], g, fieldPath(path, f, i))
		if err != nil {
			return Token{}, 0, err
		}
		items = append(items, tok)
		offset += n
	}
	return Token{Kind: p.Kind, Items: items}, offset, nil
}

func (d *Decoder) decodeVector(p ParamType, data []byte, g *guard, path []string) (Token, uint64, error) {
	if p.Elem == nil {
		return Token{}, 0, errors.InvalidData(errors.PhaseDecode, path, "vector without element type")
	}
	count, err := layout.ElementCount(*p.Elem, uint64(len(data)))
	if err != nil {
		return Token{}, 0, errors.WithPath(errors.PhaseDecode, err, path...)
	}
	if err := g.reserve(count, path); err != nil {
		return Token{}, 0, err
	}

	width := p.Elem.EncodingWidth() * abi.WordSize
	items := make([]Token, 0, count)
	for i := uint64(0); i < count; i++ {
		start := i * width
		tok, _, err := d.decodeParam(*p.Elem, data[start:start+width], g, appendIndex(path, int(i)))
		if err != nil {
			return Token{}, 0, err
		}
		items = append(items, tok)
	}
	return VectorToken(items...), uint64(len(data)), nil
}

func (d *Decoder) decodeEnum(p ParamType, data []byte, g *guard, path []string) (Token, uint64, error) {
	head, err := take(data, abi.WordSize, path)
	if err != nil {
		return Token{}, 0, err
	}
	disc := discriminant(head)
	variant, err := p.Variants.At(disc)
	if err != nil {
		return Token{}, 0, errors.WithPath(errors.PhaseDecode, err, path...)
	}

	if p.Variants.OnlyUnits() {
		if err := g.leaf(path); err != nil {
			return Token{}, 0, err
		}
		return EnumToken(disc, UnitToken(), p.Variants), abi.WordSize, nil
	}

	pad, err := p.Variants.PaddingWords(disc)
	if err != nil {
		return Token{}, 0, errors.WithPath(errors.PhaseDecode, err, path...)
	}
	skip := abi.WordSize + pad*abi.WordSize
	if _, err := take(data, skip, path); err != nil {
		return Token{}, 0, err
	}

	val, n, err := d.decodeParam(variant.Type, data[skip:], g, appendName(path, variant.Name))
	if err != nil {
		return Token{}, 0, err
	}
	return EnumToken(disc, val, p.Variants), skip + n, nil
}

// take returns the first n bytes of data or an insufficient-bytes error.
func take(data []byte, n uint64, path []string) ([]byte, error) {
	if uint64(len(data)) < n {
		return nil, errors.InsufficientBytes(errors.PhaseDecode, path, n, uint64(len(data)))
	}
	return data[:n], nil
}

// discriminant reads the low byte of the 4-byte discriminant field held in
// the low half of the first word.
func discriminant(word []byte) uint64 {
	return uint64(word[abi.WordSize-1])
}

// scalarToken decodes a primitive from exactly its encoding width.
func scalarToken(kind Kind, b []byte, path []string) (Token, error) {
	switch kind {
	case KindUnit:
		return UnitToken(), nil
	case KindBool:
		v := abi.ReadWord(b)
		if v > 1 {
			return Token{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).
				Type("bool").
				Value(v).
				Detail("bool must be 0 or 1, got %d", v).
				Build()
		}
		return BoolToken(v == 1), nil
	case KindU8:
		return U8Token(b[abi.WordSize-1]), nil
	case KindU16:
		return U16Token(binary.BigEndian.Uint16(b[abi.WordSize-2:])), nil
	case KindU32:
		return U32Token(binary.BigEndian.Uint32(b[abi.WordSize-4:])), nil
	case KindU64:
		return U64Token(abi.ReadWord(b)), nil
	case KindU128, KindU256:
		tok := Token{Kind: kind}
		tok.Big.SetBytes(b)
		return tok, nil
	case KindB256:
		var h [32]byte
		copy(h[:], b)
		return B256Token(h), nil
	default:
		return Token{}, errors.UnsupportedType(errors.PhaseDecode, path, "not a primitive: "+kind.String())
	}
}

func stringArrayToken(b []byte, path []string) (Token, error) {
	if !utf8.Valid(b) {
		return Token{}, errors.InvalidUTF8(errors.PhaseDecode, path, b)
	}
	return Token{Kind: KindStringArray, Str: string(b), StrLen: uint64(len(b))}, nil
}

func rawWords(data []byte, count uint64, g *guard, path []string) ([]uint64, error) {
	if err := g.reserve(count, path); err != nil {
		return nil, err
	}
	words := make([]uint64, 0, count)
	for i := uint64(0); i < count; i++ {
		if err := g.leaf(path); err != nil {
			return nil, err
		}
		words = append(words, abi.ReadWord(data[i*abi.WordSize:]))
	}
	return words, nil
}

func fieldPath(path []string, f Field, i int) []string {
	if f.Name != "" {
		return appendName(path, f.Name)
	}
	return appendIndex(path, i)
}

// 文件: pkg/feed/sbe_decoder.go
// SBEDecoder - 二进制 SBE (Simple Binary Encoding) tick 解码占位实现
//
// 原始实现通过 cgo 风格的 FFI 绑定一个 C 解码器；这里不引入 cgo，
// 用一个纯 Go 的定长二进制解码器替代同样的"decode_into"语义，
// 读取方可以是任何实现了 io.Reader 的字节流（文件、socket 录制）。

package feed

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

// ErrNoMoreData 表示底层流已经没有更多 tick 可解码。
var ErrNoMoreData = errors.New("feed: no more data")

// SBEDecoder 从一个字节流里按固定布局解码出连续的 tick。
type SBEDecoder struct {
	r io.Reader
}

// NewSBEDecoder 包装一个底层字节流。
func NewSBEDecoder(r io.Reader) *SBEDecoder {
	return &SBEDecoder{r: r}
}

// DecodeNext 解码下一个 tick。流结束时返回 ErrNoMoreData。
func (d *SBEDecoder) DecodeNext() (tick.Tick, error) {
	buf := make([]byte, wireTickSize)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return tick.Tick{}, ErrNoMoreData
		}
		return tick.Tick{}, err
	}
	symbolID := binary.BigEndian.Uint32(buf[0:4])
	pxE8 := binary.BigEndian.Uint64(buf[4:12])
	tsMs := binary.BigEndian.Uint64(buf[12:20])
	return tick.New(symbolID, pxE8, tsMs), nil
}

// Run 解码流中所有 tick 并推入 out，直到遇到 ErrNoMoreData。
func (d *SBEDecoder) Run(out chan<- tick.Tick) error {
	for {
		t, err := d.DecodeNext()
		if err != nil {
			if errors.Is(err, ErrNoMoreData) {
				return nil
			}
			return err
		}
		out <- t
	}
}

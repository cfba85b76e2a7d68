package llm

import (
	"errors"
	"io"
	"iter"
	"strings"
	"sync"
)

// RecvFunc 拉取下一个片段
//
// 返回 io.EOF 表示流正常结束。空字符串片段会被 Stream 跳过。
type RecvFunc func() (string, error)

// Stream 单次消费的流式文本片段序列
//
// 使用方式：
//
//	stream, err := gen.StreamingResponse(ctx, conv, nil)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for stream.Next() {
//	    fmt.Print(stream.Text())
//	}
//	if err := stream.Err(); err != nil {
//	    return err
//	}
//
// Stream 不是并发安全的，只应由一个 goroutine 消费。
type Stream struct {
	recv   RecvFunc
	closer io.Closer

	cur  string
	err  error
	done bool

	closeOnce sync.Once
	closeErr  error
}

// NewStream 创建流
//
// closer 在流结束、出错或调用 Close 时关闭一次，可为 nil。
func NewStream(recv RecvFunc, closer io.Closer) *Stream {
	return &Stream{recv: recv, closer: closer}
}

// NewStreamFromSlice 基于固定片段创建流（测试和 mock 使用）
func NewStreamFromSlice(fragments []string) *Stream {
	i := 0
	return NewStream(func() (string, error) {
		if i >= len(fragments) {
			return "", io.EOF
		}
		f := fragments[i]
		i++
		return f, nil
	}, nil)
}

// Next 前进到下一个非空片段
//
// 返回 false 表示流结束或出错，通过 Err 区分。
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	for {
		text, err := s.recv()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			s.finish()
			return false
		}
		if text == "" {
			continue
		}
		s.cur = text
		return true
	}
}

// Text 返回当前片段
func (s *Stream) Text() string {
	return s.cur
}

// Err 返回流中遇到的错误（正常结束为 nil）
func (s *Stream) Err() error {
	return s.err
}

// Close 提前终止流并释放传输资源，可重复调用
func (s *Stream) Close() error {
	s.finish()
	return s.closeErr
}

func (s *Stream) finish() {
	s.done = true
	s.cur = ""
	s.closeOnce.Do(func() {
		if s.closer != nil {
			s.closeErr = s.closer.Close()
		}
	})
}

// All 以迭代器形式遍历片段
//
// 循环中 break 会关闭流。出错时最后一次产出 ("", err)。
func (s *Stream) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer func() { _ = s.Close() }()
		for s.Next() {
			if !yield(s.Text(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield("", err)
		}
	}
}

// Collect 消费全部片段并拼接
func (s *Stream) Collect() (string, error) {
	var sb strings.Builder
	for text, err := range s.All() {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

package engine

import (
	"errors"
	"strings"
)

var (
	// ErrFeedClosed is returned by Run when the notification channel closes.
	ErrFeedClosed = errors.New("notification feed closed")
)

// ErrorKind classifies an exchange error notification.
type ErrorKind int

const (
	// ErrorUnknown: logged with the decision branch, order treated as filled to zero.
	ErrorUnknown ErrorKind = iota
	// ErrorBenign: self-cross style warnings; the order is gone, nothing else changes.
	ErrorBenign
	// ErrorCapacity: too many open orders or too much resting volume.
	ErrorCapacity
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorBenign:
		return "benign"
	case ErrorCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Classifier 按子串（不区分大小写）识别错误类型；容量类优先于无害类。
type Classifier struct {
	benign   []string
	capacity []string
}

func NewClassifier(benign, capacity []string) Classifier {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return Classifier{benign: lower(benign), capacity: lower(capacity)}
}

func (c Classifier) Classify(text string) ErrorKind {
	t := strings.ToLower(text)
	for _, s := range c.capacity {
		if strings.Contains(t, s) {
			return ErrorCapacity
		}
	}
	for _, s := range c.benign {
		if strings.Contains(t, s) {
			return ErrorBenign
		}
	}
	return ErrorUnknown
}

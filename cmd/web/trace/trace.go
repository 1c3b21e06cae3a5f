// Package trace carries a request id and a CMS-call span counter through a context.
package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey struct{}

// span 은 inbound 요청 하나의 추적 정보다. seq 는 0 에서 시작해 CMS 호출마다 1 씩 증가한다.
type span struct {
	requestID string
	seq       atomic.Int64
}

// GenerateID 는 하이픈을 뺀 UUIDv4(32자)를 만든다.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Start 는 requestID 와 span 0 을 담은 컨텍스트를 돌려준다.
func Start(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, &span{requestID: requestID})
}

func from(ctx context.Context) *span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxKey{}).(*span)
	return s
}

// RequestIDFromContext 는 Start 로 저장한 request id 를 돌려준다. 없으면 "".
func RequestIDFromContext(ctx context.Context) string {
	if s := from(ctx); s != nil {
		return s.requestID
	}
	return ""
}

// CurrentSpanID 는 증가시키지 않고 현재 span 번호를 돌려준다.
func CurrentSpanID(ctx context.Context) string {
	s := from(ctx)
	if s == nil {
		return "0"
	}
	return strconv.FormatInt(s.seq.Load(), 10)
}

// NextSpanID 는 span 을 하나 올리고 (requestID, spanID) 를 돌려준다.
// 추적 정보가 없는 컨텍스트(export 등)에서는 새 id 와 span "1" 을 쓴다.
func NextSpanID(ctx context.Context) (string, string) {
	s := from(ctx)
	if s == nil {
		return GenerateID(), "1"
	}
	return s.requestID, strconv.FormatInt(s.seq.Add(1), 10)
}

package adapter

import (
	"net/http"

	"github.com/ihack2712/middleware/pipeline"
)

// HTTPCall HTTP 请求在链中传递的参数.
//
// 单元可以替换 Request（例如注入 context）或包装 Writer，
// 替换后的值会传给下游处理器.
type HTTPCall struct {
	Writer  http.ResponseWriter
	Request *http.Request
}

// HTTPMiddleware 将引擎转换为 HTTP 中间件.
//
// 链路失败且尚未写入响应时返回 500.
// 未调用 next 的单元负责写入响应.
func HTTPMiddleware(e *pipeline.Engine[*HTTPCall]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			call := &HTTPCall{Writer: rw, Request: r}

			d := e.Run(r.Context(), call, func(discontinue ...bool) error {
				if !isDiscontinue(discontinue) {
					next.ServeHTTP(call.Writer, call.Request)
				}
				return nil
			})

			switch {
			case !d.Success:
				if !rw.written {
					http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			case bypassed(d):
				next.ServeHTTP(call.Writer, call.Request)
			}
		})
	}
}

// responseWriter 记录响应是否已经写入.
type responseWriter struct {
	http.ResponseWriter
	written bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap 供 http.ResponseController 访问底层 ResponseWriter.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

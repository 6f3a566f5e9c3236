package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const processTimeHeader = "X-Process-Time"

// timingWriter stamps X-Process-Time on the response just before the header is flushed.
type timingWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timingWriter) stamp() {
	if w.stamped || w.ResponseWriter.Written() {
		return
	}
	w.stamped = true
	elapsed := time.Since(w.start).Seconds()
	w.ResponseWriter.Header().Set(processTimeHeader, strconv.FormatFloat(elapsed, 'f', 4, 64))
}

func (w *timingWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// ProcessTimeMiddleware reports the handling time in seconds with four decimals.
func ProcessTimeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tw := &timingWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Writer = tw
		c.Next()
		tw.stamp()
	}
}

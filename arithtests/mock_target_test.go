package arithtests

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// mockTarget is an in-process stand-in for the arithmetic service. Operands are read from
// the a and b query parameters, or from the path as in /add/2/2.
type mockTarget struct {
	multiplyOffset int
	failStatus     map[string]int
	delay          func(op string, a, b int) time.Duration
	inFlight       int32
	maxInFlight    int32
	onRequest      func(r *http.Request)
}

func (m *mockTarget) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		prev := atomic.LoadInt32(&m.maxInFlight)
		if n <= prev || atomic.CompareAndSwapInt32(&m.maxInFlight, prev, n) {
			break
		}
	}
	if m.onRequest != nil {
		m.onRequest(r)
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	op := segments[0]
	if status, ok := m.failStatus[op]; ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("Internal Server Error"))
		return
	}

	var aText, bText string
	if len(segments) == 3 {
		aText, bText = segments[1], segments[2]
	} else {
		aText, bText = r.URL.Query().Get("a"), r.URL.Query().Get("b")
	}
	a, errA := strconv.Atoi(aText)
	b, errB := strconv.Atoi(bText)
	if errA != nil || errB != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	if m.delay != nil {
		time.Sleep(m.delay(op, a, b))
	}

	var result int
	switch op {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a*b + m.multiplyOffset
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"result": result})
}

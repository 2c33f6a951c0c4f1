package frontend

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"lostark_dps/analysis"

	"github.com/dpapathanasiou/go-recaptcha"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var (
	websocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

	recaptchaSecret = os.Getenv("GOOGLE_RECAPTCHA_V3_SECRET")
)

func init() {
	if recaptchaSecret != "" {
		recaptcha.Init(recaptchaSecret)
	}
}

var (
	queueLock sync.Mutex
	queue     = make([]*queueData, 0, 16)
	queueWake = make(chan struct{}, 1)

	queueWorkerOnce sync.Once
)

type queueData struct {
	lock sync.Mutex

	conn *websocket.Conn
	opt  analysis.Options

	done chan struct{}
	skip bool
}

// routeAnalysisWS is the streamed variant of the single-player pipeline.
// The client sends a recaptcha token, then the request object, and
// receives ready/waiting/start/progress/complete events. Requests run
// through a FIFO queue with one worker.
func routeAnalysisWS(an *analysis.Analyzer) gin.HandlerFunc {
	queueWorkerOnce.Do(func() { go queueWorker(an) })

	return func(c *gin.Context) {
		ctx, ctxCancel := context.WithCancel(c.Request.Context())
		defer ctxCancel()

		ws, err := websocketUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			fmt.Printf("%+v\n", errors.WithStack(err))
			return
		}
		defer ws.Close()

		ws.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if recaptchaSecret != "" {
			ok, err := recaptcha.Confirm(remoteAddr(c), string(msg))
			if err != nil || !ok {
				return
			}
		}
		ws.SetReadDeadline(time.Time{})

		q := queueData{
			conn: ws,
			done: make(chan struct{}),
		}
		q.Ready()

		if err := ws.ReadJSON(&q.opt); err != nil {
			return
		}
		if q.opt.RunID == "" || q.opt.PlayerID == "" || q.opt.GateID == "" {
			q.Error("missing parameter(s): id, player_id, gate_id")
			return
		}

		// Drain whatever else the client sends so pongs keep flowing.
		go func() {
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		go func() {
			ticker := time.NewTicker(5 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					q.lock.Lock()
					err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second))
					q.lock.Unlock()
					if err != nil {
						ctxCancel()
						return
					}
				case <-q.done:
					return
				}
			}
		}()

		q.opt.Context = ctx
		q.opt.Progress = q.Progress

		queueLock.Lock()
		q.Reorder(len(queue))
		if len(queue) == 0 {
			select {
			case queueWake <- struct{}{}:
			default:
			}
		}
		queue = append(queue, &q)
		queueLock.Unlock()

		select {
		case <-q.done:
			q.lock.Lock()
			ws.WriteMessage(websocket.CloseMessage, websockEmptyClosure)
			q.lock.Unlock()

		case <-ctx.Done():
			q.lock.Lock()
			q.skip = true
			q.lock.Unlock()
		}
	}
}

func queueWorker(an *analysis.Analyzer) {
	for {
		var q *queueData

		queueLock.Lock()
		if len(queue) > 0 {
			q = queue[0]
			copy(queue, queue[1:])
			queue = queue[:len(queue)-1]

			for i, waiting := range queue {
				go waiting.Reorder(i)
			}
		}
		queueLock.Unlock()

		if q == nil {
			<-queueWake
			continue
		}

		q.lock.Lock()
		skip := q.skip
		q.lock.Unlock()
		if skip {
			continue
		}

		log.Printf("analysis start: run %s player %s gate %s", q.opt.RunID, q.opt.PlayerID, q.opt.GateID)
		q.Start()

		rows, err := an.PlayerBreakdown(&q.opt)
		switch {
		case errors.Is(err, analysis.ErrZeroDamage):
			q.Complete(analysis.ErrZeroDamage.Error(), []analysis.SkillStatRow{})

		case err != nil:
			sentry.CaptureException(err)
			log.Printf("%+v", err)
			q.Error(err.Error())

		default:
			q.Complete("", rows)
		}

		close(q.done)
	}
}

func remoteAddr(c *gin.Context) string {
	if v := c.GetHeader("X-Forwarded-For"); v != "" {
		return v
	}
	if v := c.GetHeader("X-Real-Ip"); v != "" {
		return v
	}

	addr := c.Request.RemoteAddr
	if idx := strings.IndexByte(addr, ':'); idx >= 0 {
		addr = addr[:idx]
	}
	return addr
}

type wsEvent struct {
	Event   string      `json:"event"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (q *queueData) send(ev *wsEvent) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if err := q.conn.WriteJSON(ev); err != nil {
		log.Println(err)
	}
}

func (q *queueData) Ready() {
	q.send(&wsEvent{Event: "ready"})
}

func (q *queueData) Reorder(order int) {
	q.send(&wsEvent{Event: "waiting", Data: order})
}

func (q *queueData) Start() {
	q.send(&wsEvent{Event: "start"})
}

func (q *queueData) Progress(p float32) {
	q.send(&wsEvent{Event: "progress", Data: p})
}

func (q *queueData) Error(msg string) {
	q.send(&wsEvent{Event: "error", Message: msg})
}

func (q *queueData) Complete(msg string, rows []analysis.SkillStatRow) {
	q.send(&wsEvent{Event: "complete", Message: msg, Data: rows})
}

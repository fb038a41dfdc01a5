// Package server exposes a Streamer over HTTP: a small JSON remote control
// and a single MPEG stream endpoint.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
	"github.com/hansbonini/vcdplayer/pkg/vcdplayer"
)

// Server contains the state that is accessible over the HTTP API.
type Server struct {
	id          uuid.UUID
	streamer    *vcdplayer.Streamer
	titleFormat string
	log         *log.Entry

	streaming atomic.Bool
}

// New creates a server for st. The Streamer must be running.
func New(st *vcdplayer.Streamer, titleFormat string, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	if titleFormat == "" {
		titleFormat = vcdinfo.DefaultTitleFormat
	}
	id := uuid.New()
	return &Server{
		id:          id,
		streamer:    st,
		titleFormat: titleFormat,
		log:         logger.WithField("session", id.String()),
	}
}

// ID identifies this server instance in responses and log lines.
func (srv *Server) ID() uuid.UUID {
	return srv.id
}

// Handler returns a router with all routes attached.
func (srv *Server) Handler() http.Handler {
	r := chi.NewRouter()
	srv.InitRouter(r)
	return r
}

// InitRouter attaches all routes to the specified router.
func (srv *Server) InitRouter(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(jsonCtx)
		r.Get("/status", srv.status)
		r.Post("/play/{item}", srv.play)
		r.Post("/nav/{op}", srv.navigate)
		r.Post("/select/{n}", srv.selectItem)
		r.Post("/seek", srv.seek)
	})
	r.Get("/stream", srv.stream)
}

type jsonPosition struct {
	Item    string `json:"item"`
	LID     int    `json:"lid,omitempty"`
	Track   uint32 `json:"track"`
	Entry   int    `json:"entry"`
	LSN     uint32 `json:"lsn"`
	Origin  uint32 `json:"origin"`
	End     uint32 `json:"end"`
	Offset  int64  `json:"offset"`
	Playing bool   `json:"playing"`
}

func jsonPos(pos vcdplayer.Position) jsonPosition {
	jp := jsonPosition{
		Item:    pos.Item.String(),
		Track:   pos.Track,
		Entry:   pos.Entry,
		LSN:     pos.LSN,
		Origin:  pos.Origin,
		End:     pos.End,
		Offset:  pos.Offset(),
		Playing: pos.Playing,
	}
	if pos.LID != vcdinfo.NoLID {
		jp.LID = int(pos.LID)
	}
	return jp
}

func (srv *Server) status(w http.ResponseWriter, r *http.Request) {
	pos, err := srv.streamer.Position(r.Context())
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	title, err := srv.streamer.Title(r.Context(), srv.titleFormat)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session":  srv.id.String(),
		"title":    title,
		"position": jsonPos(pos),
	})
}

func (srv *Server) play(w http.ResponseWriter, r *http.Request) {
	item, err := vcdinfo.ParseItem(chi.URLParam(r, "item"))
	if err != nil {
		srv.writeError(w, r, badRequest{err})
		return
	}
	if err := srv.streamer.Play(r.Context(), item); err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writePosition(w, r)
}

func (srv *Server) navigate(w http.ResponseWriter, r *http.Request) {
	op, err := vcdplayer.ParseNavOp(chi.URLParam(r, "op"))
	if err != nil {
		srv.writeError(w, r, badRequest{err})
		return
	}
	if op == vcdplayer.NavActivate {
		srv.writeError(w, r, badRequest{errors.New("use /select/{n} to activate a selection")})
		return
	}
	if err := srv.streamer.Navigate(r.Context(), op, 0); err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writePosition(w, r)
}

func (srv *Server) selectItem(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseUint(chi.URLParam(r, "n"), 10, 16)
	if err != nil {
		srv.writeError(w, r, badRequest{fmt.Errorf("selection: %w", err)})
		return
	}
	if err := srv.streamer.Navigate(r.Context(), vcdplayer.NavActivate, uint16(n)); err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writePosition(w, r)
}

func (srv *Server) seek(w http.ResponseWriter, r *http.Request) {
	offset, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	if err != nil {
		srv.writeError(w, r, badRequest{fmt.Errorf("offset: %w", err)})
		return
	}
	if err := srv.streamer.Seek(r.Context(), offset); err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writePosition(w, r)
}

func (srv *Server) writePosition(w http.ResponseWriter, r *http.Request) {
	pos, err := srv.streamer.Position(r.Context())
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	json.NewEncoder(w).Encode(jsonPos(pos))
}

// stream copies payload data to the client until playback ends or the
// client goes away. Only one stream may be open at a time since all
// readers would share the same Blocks channel.
func (srv *Server) stream(w http.ResponseWriter, r *http.Request) {
	if !srv.streaming.CompareAndSwap(false, true) {
		srv.log.Warnf(common.WarnStreamBusy, r.RemoteAddr)
		http.Error(w, "stream already open", http.StatusConflict)
		return
	}
	defer srv.streaming.Store(false)

	w.Header().Set("Content-Type", "video/mpeg")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, _ := w.(http.Flusher)

	srv.log.Infof(common.InfoStreamStarted, r.RemoteAddr)
	var written uint64
	defer func() {
		srv.log.Infof(common.InfoStreamFinished, r.RemoteAddr, humanize.Bytes(written))
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case res, ok := <-srv.streamer.Blocks():
			if !ok {
				return
			}
			switch res.Status {
			case vcdplayer.StatusBlock:
				n, err := w.Write(res.Data)
				written += uint64(n)
				if err != nil {
					srv.log.Errorf(common.ErrServingRequest, r.RemoteAddr, err)
					return
				}
				if flusher != nil {
					flusher.Flush()
				}
			case vcdplayer.StatusError:
				srv.log.Warn(res.Err)
			case vcdplayer.StatusEnd:
				return
			}
		}
	}
}

type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func statusCode(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, vcdplayer.ErrInvalidItemNumber):
		return http.StatusNotFound
	case errors.Is(err, vcdplayer.ErrNoTarget),
		errors.Is(err, vcdplayer.ErrNotPlaying),
		errors.Is(err, vcdplayer.ErrSeekOutOfRange):
		return http.StatusConflict
	case errors.Is(err, vcdplayer.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes an error to the client as a JSON object.
func (srv *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		srv.log.Errorf(common.ErrServingRequest, r.RemoteAddr, err)
	} else {
		srv.log.Debugf(common.ErrServingRequest, r.RemoteAddr, err)
	}
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

func jsonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

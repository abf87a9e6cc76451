package router

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lifeline-ops/ambutrack/pkg/concurrent"
	"github.com/lifeline-ops/ambutrack/pkg/http/router/controllers"
	http_server "github.com/lifeline-ops/ambutrack/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func (api *API) handleWebsocket(ctx context.Context, config http_server.Config,
	trackingService controllers.TrackingService,
	useRateLimit bool, errChan chan error,
) {
	var err error

	wsRouter := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore

	})

	wsRouter.GET("/doc/*any", swaggerHandler)

	wsRouter.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)

	var mwChain []alice.Constructor
	if useRateLimit {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(api.log), Labels, Limit)
	} else {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(api.log), Labels)
	}
	mainMwChain := alice.New(mwChain...).Then(wsRouter)
	srv := http_server.New(ctx, mainMwChain, config, true)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		errChan <- err
		return
	}
	api.log.Info(fmt.Sprintf("vehicle stream websocket API run on port %d", config.WebsocketPort))

	acceptDesc := netpoll.Must(netpoll.HandleListener(
		ln, netpoll.EventRead|netpoll.EventOneShot,
	))

	api.poller, err = netpoll.New(nil)
	if err != nil {
		errChan <- err
		return
	}

	api.pool = concurrent.NewWorkerPool(15, 10)

	api.hub = controllers.NewHub(api.pool, trackingService)

	api.pool.Spawn(10)
	// accept is a channel to signal about next incoming connection Accept()
	// results.
	accept := make(chan error, 1)

	api.poller.Start(acceptDesc, func(conn netpoll.Event) {
		// the listener fd sits in the epoll interest list; netpoll runs
		// epoll_wait in the background and calls back when a connection
		// is ready to Accept().
		defer api.poller.Resume(acceptDesc)
		err := api.pool.ScheduleTimeout(1000*time.Millisecond, func() {
			conn, err := ln.Accept()
			if err != nil {
				accept <- err
				return
			}

			accept <- nil
			api.handle(conn)
		})
		if err == nil {
			err = <-accept
		}
		if err != nil {
			// if the goroutine pool stays full for 1s while connections
			// keep arriving, cool the accept loop down for 5ms
			if err != concurrent.ErrScheduleTimeout {
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			} else {
				api.log.Sugar().Fatalf("accept error: %v", err)
			}
		}

	})

	<-ctx.Done()

	ln.Close()

	api.hub.Shutdown()
	api.poller.Stop(acceptDesc)

	api.pool.Close()

	api.log.Info("websocket server stopped")
}

// handle upgrades one dashboard connection and parks its file descriptor
// in epoll; read-readiness events are served from the worker pool, so idle
// subscribers cost no goroutine stack.
// ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
func (api *API) handle(conn net.Conn) {

	br := bufio.NewReader(conn)

	rw := struct {
		io.Reader
		io.Writer
	}{br, conn}

	hs, err := ws.Upgrade(rw)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("connnection name ", nameConn(conn)))
		conn.Close()
		return
	}

	api.log.Info("established websocket connection", zap.String("connnection name ", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	client := api.hub.Register(conn)

	desc := netpoll.Must(netpoll.HandleRead(conn))

	api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			// the peer closed its end of the stream socket
			api.log.Info("client disconnected from websocket server")

			api.poller.Stop(desc)
			api.hub.Remove(client)
			return
		}

		// spawn goroutine from goroutine pool to handle the request
		api.pool.Schedule(func() {
			err := client.HandleRequest()
			if err != nil {
				api.log.Error("error handling stream subscription", zap.Error(err))
				// error -> drop the fd from the epoll interest list and
				// detach the client from the hub
				api.poller.Stop(desc)
				api.hub.Remove(client)
			}
		})

	})
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}

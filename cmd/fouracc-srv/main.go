// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fouracc-srv runs a web server for the spectral analysis of MSR
// acceleration files and CSV time series.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/lsst-lpc/fouracc/internal/config"
	"github.com/pkg/errors"
	"golang.org/x/crypto/acme/autocert"
)

var (
	addrFlag = flag.String("addr", ":8080", "server address:port")
	servFlag = flag.String("serv", "http", "server protocol")
	hostFlag = flag.String("host", "", "server domain name for TLS ")
	cfgFlag  = flag.String("config", "", "YAML file with the default analysis settings")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			`Usage: fouracc-srv [options]

ex:


 $> fouracc-srv -addr :8080 -serv https -host example.com
 2017/04/06 15:13:59 https server listening on :8080 at example.com
 $> fouracc-srv -config analysis.yaml

options:
`,
		)
		flag.PrintDefaults()
	}

	flag.Parse()

	log.SetPrefix("fouracc-srv: ")
	log.SetFlags(0)

	cfg := config.Default()
	if *cfgFlag != "" {
		var err error
		cfg, err = config.Load(*cfgFlag)
		if err != nil {
			log.Fatalf("could not load configuration: %+v", err)
		}
	}

	dir, err := os.MkdirTemp("", "fouracc-srv-")
	if err != nil {
		log.Panicf("could not create temporary directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, dir, cfg)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(ctx context.Context, dir string, cfg config.Analysis) error {
	defer func() {
		log.Printf("shutdown sequence...")
		log.Printf("removing directory %q...", dir)
		os.RemoveAll(dir)
	}()

	mux := http.NewServeMux()
	app := newServer(dir, cfg, mux)
	defer app.Shutdown()

	hsrv := &http.Server{Addr: *addrFlag, Handler: mux}
	switch *servFlag {
	case "http":
	case "https":
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(*hostFlag),
			Cache:      autocert.DirCache("certs"),
		}
		hsrv.TLSConfig = &tls.Config{GetCertificate: m.GetCertificate}
	default:
		return errors.Errorf("invalid server protocol %q", *servFlag)
	}

	log.Printf("%s server listening on %s (chunks=%d, window=%q, detrend=%q)",
		*servFlag, *addrFlag, cfg.Chunks, cfg.Window, cfg.Detrend,
	)

	errc := make(chan error, 1)
	go func() {
		if hsrv.TLSConfig != nil {
			errc <- hsrv.ListenAndServeTLS("", "")
			return
		}
		errc <- hsrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "could not serve")
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hsrv.Shutdown(sctx)
}

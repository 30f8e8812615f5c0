// Copyright 2019 The fouracc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	uuid "github.com/hashicorp/go-uuid"
	"github.com/lsst-lpc/fouracc"
	"github.com/lsst-lpc/fouracc/internal/config"
	"github.com/lsst-lpc/fouracc/labeled"
	"github.com/lsst-lpc/fouracc/msr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const cookieName = "FOURACC_SRV"

type server struct {
	dir      string
	defaults config.Analysis
	quit     chan int

	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	ids     map[string]map[string]struct{}
}

func newServer(dir string, defaults config.Analysis, mux *http.ServeMux) *server {
	app := &server{
		dir:      dir,
		defaults: defaults,
		quit:     make(chan int),
		cookies: make(map[string]*http.Cookie),
		ids:     make(map[string]map[string]struct{}),
	}
	go app.run()

	mux.Handle("/", app.wrap(app.rootHandle))
	mux.Handle("/run", app.wrap(app.runHandle))
	mux.Handle("/dl", app.wrap(app.dlHandle))
	mux.Handle("/rm", app.wrap(app.rmHandle))
	return app
}

func (srv *server) run() {

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	srv.gc()
	for {
		select {
		case <-ticker.C:
			srv.gc()
		case <-srv.quit:
			return
		}
	}
}

func (srv *server) Shutdown() {
	close(srv.quit)
}

func (srv *server) gc() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for name, cookie := range srv.cookies {
		now := time.Now()
		if now.After(cookie.Expires) {
			delete(srv.cookies, name)
			cookie.MaxAge = -1
			if srv.ids[cookie.Value] != nil {
				for id := range srv.ids[cookie.Value] {
					dir := filepath.Join(srv.dir, "id", id)
					os.RemoveAll(dir)
				}
			}
		}
	}
}

func (srv *server) expired(cookie *http.Cookie) bool {
	now := time.Now()
	return now.After(cookie.Expires)
}

func (srv *server) setCookie(w http.ResponseWriter, r *http.Request) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	cookie, err := r.Cookie(cookieName)
	if err != nil && err != http.ErrNoCookie {
		return err
	}

	if cookie != nil {
		return nil
	}

	v, err := uuid.GenerateUUID()
	if err != nil {
		return errors.Wrapf(err, "could not generate UUID")
	}

	cookie = &http.Cookie{
		Name:    cookieName,
		Value:   v,
		Expires: time.Now().Add(24 * time.Hour),
	}
	srv.cookies[cookie.Value] = cookie
	srv.ids[cookie.Value] = make(map[string]struct{})
	http.SetCookie(w, cookie)
	return nil
}

func (srv *server) wrap(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := srv.setCookie(w, r)
		if err != nil {
			log.Printf("error retrieving cookie: %v\n", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := fn(w, r); err != nil {
			log.Printf("error %q: %v\n", r.URL.Path, err.Error())
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (srv *server) rootHandle(w http.ResponseWriter, r *http.Request) error {
	switch r.Method {
	case http.MethodGet:
		// ok
	default:
		return fmt.Errorf("invalid request %q for /", r.Method)
	}

	crutime := time.Now().Unix()
	h := md5.New()
	io.WriteString(h, strconv.FormatInt(crutime, 10))
	token := fmt.Sprintf("%x", h.Sum(nil))

	t, err := template.New("upload").Parse(page)
	if err != nil {
		return err
	}

	return t.Execute(w, struct {
		Token string
		config.Analysis
	}{token, srv.defaults})
}

func (srv *server) runHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return errors.Wrapf(err, "could not parse multipart form")
	}

	f, handler, err := r.FormFile("input-file")
	if err != nil {
		return errors.Wrapf(err, "could not access input file")
	}
	defer f.Close()
	fname := handler.Filename
	if strings.HasPrefix(fname, `C:\fakepath\`) {
		fname = string(fname[len(`C:\fakepath\`):])
	}
	log.Printf("fname: %v", fname)

	req, err := newRequest(r, srv.defaults)
	if err != nil {
		return err
	}
	log.Printf("chunks: %d", req.cfg.Chunks)

	series, err := load(f, req.channel)
	if err != nil {
		log.Printf(">>> err load: %v", err)
		return errors.Wrapf(err, "could not load input file")
	}
	log.Printf("samples: %d", series.Size())

	an, err := fouracc.Analyze(fname, series, req.cfg.Chunks, req.options()...)
	if err != nil {
		log.Printf(">>> err analyze: %v", err)
		return errors.Wrapf(err, "could not analyze input file")
	}
	log.Printf("spectrogram: %v%v", an.Spectrogram.Dims(), an.Spectrogram.Shape())

	const (
		width  = 20 * vg.Centimeter
		height = 30 * vg.Centimeter
	)

	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	err = fouracc.Plot(draw.New(c), an)
	if err != nil {
		log.Printf(">>> err plot: %v", err)
		return errors.Wrapf(err, "could not create in-memory plot")
	}

	img := new(bytes.Buffer)
	_, err = c.WriteTo(img)
	if err != nil {
		log.Printf(">>> err write plot: %v", err)
		return errors.Wrapf(err, "could not create image plot")
	}

	id := r.PostFormValue("id")
	if id == "" {
		log.Printf("empty ID")
		return errors.Errorf("invalid form ID")
	}

	srv.mu.Lock()
	if srv.ids[cookie.Value] == nil {
		srv.ids[cookie.Value] = make(map[string]struct{})
	}
	srv.ids[cookie.Value][id] = struct{}{}
	srv.mu.Unlock()

	dir := filepath.Join(srv.dir, "id", id)
	err = srv.save(dir, id, fname, img.Bytes(), an)
	if err != nil {
		log.Printf("could not save report for %q: %v", fname, err)
		return errors.Wrapf(err, "could not save report for %q", fname)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(struct {
		Image string `json:"data"`
	}{
		Image: base64.StdEncoding.EncodeToString(img.Bytes()),
	})
	if err != nil {
		log.Printf(">>> err json encoder: %v", err)
		return errors.Wrapf(err, "could not encode to json")
	}

	return nil
}

// request holds the analysis settings of a /run form.
type request struct {
	cfg     config.Analysis
	channel string
}

// newRequest overrides the server defaults with the fields present in the
// /run form.
func newRequest(r *http.Request, defaults config.Analysis) (request, error) {
	req := request{
		cfg:     defaults,
		channel: r.PostFormValue("channel"),
	}
	if req.channel == "" {
		req.channel = msr.AccZ
	}

	if v := r.PostFormValue("chunksz"); v != "" {
		chunks, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.Wrap(err, "could not parse chunks-size")
		}
		req.cfg.Chunks = chunks
	}

	if _, ok := r.PostForm["detrend"]; ok {
		req.cfg.Detrend = r.PostFormValue("detrend")
	}

	if _, ok := r.PostForm["window"]; ok {
		switch r.PostFormValue("window") {
		case "on":
			if req.cfg.Window == "" {
				req.cfg.Window = "hann"
			}
		default:
			req.cfg.Window = ""
		}
	}

	err := req.cfg.Validate()
	if err != nil {
		return req, errors.Wrap(err, "invalid analysis settings")
	}
	return req, nil
}

func (req request) options() []fouracc.Option {
	return append(req.cfg.Options(),
		fouracc.WithReporter(fouracc.LogReporter{
			Logger: logrus.WithField("channel", req.channel),
		}),
	)
}

// load reads a time series from an MSR file, using the given channel, or
// from a plain CSV file.
func load(r io.Reader, channel string) (*labeled.Array, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len("*CREATOR"))
	if string(head) != "*CREATOR" {
		return fouracc.Load(br)
	}
	f, err := msr.Parse(br)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse MSR file")
	}
	return f.Series(channel)
}

func (srv *server) dlHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseForm()
	if err != nil {
		return errors.Wrapf(err, "could not parse multipart form")
	}

	id := r.Form.Get("id")
	if id == "" {
		log.Printf(">>> empty ID")
		return errors.Errorf("invalid ID")
	}

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		log.Printf("unknown ID %s", id)
		return errors.Errorf("unknown ID %q", id)
	}

	kind := r.Form.Get("kind")
	if kind == "" {
		kind = "spectrogram"
	}

	dir := filepath.Join(srv.dir, "id", id)

	matches, err := filepath.Glob(filepath.Join(dir, "*."+kind+".csv"))
	if err != nil {
		log.Printf("could not find data file report for id %q: %v", id, err)
		return errors.Wrapf(err, "could not find data file report for %q", id)
	}

	if len(matches) != 1 {
		log.Printf("invalid number of data file report(s) for id %q: got=%d, want=1", id, len(matches))
		return errors.Errorf("invalid number of data file report(s) for id %q: got=%d, want=1", id, len(matches))
	}

	fname := matches[0]
	f, err := os.Open(fname)
	if err != nil {
		log.Printf("could not open data file report for id %q: %v", id, err)
		return errors.Wrapf(err, "could not open data file report for id %q", id)
	}
	defer f.Close()

	w.Header().Set("Content-Description", "File Transfer")
	w.Header().Set("Content-Transfer-Encoding", "binary")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(fname))
	w.Header().Set("Content-Type", "application/force-download")

	_, err = io.Copy(w, f)
	if err != nil {
		log.Printf("could not copy data file report for id %q: %v", id, err)
		return errors.Wrapf(err, "could not copy data file report for id %q", id)
	}

	return nil
}

func (srv *server) rmHandle(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return errors.Wrap(err, "could not retrieve cookie")
	}

	err = r.ParseMultipartForm(500 << 20)
	if err != nil {
		return errors.Wrapf(err, "could not parse multipart form")
	}

	id := r.PostFormValue("id")
	if id == "" {
		log.Printf(">>> empty ID")
		return errors.Errorf("invalid ID")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if _, ok := srv.ids[cookie.Value][id]; !ok {
		log.Printf("unknown ID %s", id)
		return errors.Errorf("unknown ID %q", id)
	}
	delete(srv.ids[cookie.Value], id)

	dir := filepath.Join(srv.dir, "id", id)
	err = os.RemoveAll(dir)
	if err != nil {
		log.Printf("could not remove output results directory %q: %v", dir, err)
		return errors.Wrapf(err, "could not remove output results directory %q", id)
	}

	return nil
}

func (srv *server) save(dir, id, fname string, img []byte, an fouracc.Analysis) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		log.Printf("could not create output directory for results %s: %v", dir, err)
		return errors.Wrapf(err, "could not create output directory %s for results", id)
	}

	bname := fname[:len(fname)-len(filepath.Ext(fname))]
	err = os.WriteFile(filepath.Join(dir, bname+".png"), img, 0644)
	if err != nil {
		log.Printf("could not save plot file %s: %v", bname+".png", err)
		return errors.Wrapf(err, "could not save plot %q", id)
	}

	for _, out := range []struct {
		kind string
		data *labeled.Array
	}{
		{"spectrogram", an.Spectrogram},
		{"spectrum", an.Spectrum},
	} {
		oname := filepath.Join(dir, fmt.Sprintf("%s.chunksz-%d.%s.csv", bname, an.Chunks, out.kind))
		err = writeCSV(oname, out.data)
		if err != nil {
			log.Printf("could not write output data file %q: %v", oname, err)
			return errors.Wrapf(err, "could not write %s data file %q", out.kind, id)
		}
	}

	return nil
}

func writeCSV(oname string, a *labeled.Array) error {
	f, err := os.Create(oname)
	if err != nil {
		return err
	}
	defer f.Close()

	err = fouracc.Save(f, a)
	if err != nil {
		return err
	}
	return f.Close()
}

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/internal/testutil"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/repo/model"
	"github.com/stretchr/testify/suite"
)

const jwtSecret = "router-secret"

type envelope struct {
	Code  code.ErrCode    `json:"code"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Msg    string              `json:"msg"`
		Fields map[string][]string `json:"fields"`
	} `json:"error"`
}

type routerSuite struct {
	suite.Suite
	srv   *httptest.Server
	token string
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(routerSuite))
}

func (s *routerSuite) SetupSuite() {
	testutil.SetupDB(s.T())
	conf := config.Global()
	conf.Auth.AuthSource = config.AuthJWT
	conf.Auth.JWTSecret = jwtSecret

	gin.SetMode(gin.TestMode)
	g := gin.New()
	NewRouter(context.Background(), g)
	s.srv = httptest.NewServer(g)
	s.T().Cleanup(s.srv.Close)

	token, err := auth.SignToken(jwtSecret, conf.Auth.JWTIssuer, &model.UserData{ID: "tech-1", Name: "tech"}, time.Hour)
	s.Require().NoError(err)
	s.token = token

	status, _ := s.do(http.MethodPost, "/api/v1/wells", map[string]any{"well_name": "Test Well"}, true)
	s.Require().Equal(http.StatusOK, status)
}

func (s *routerSuite) do(method, path string, body any, authed bool) (int, *envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	env := &envelope{}
	_ = json.NewDecoder(resp.Body).Decode(env)
	return resp.StatusCode, env
}

func wellPath(well string, rest string) string {
	return "/api/v1/wells/" + url.PathEscape(well) + rest
}

func (s *routerSuite) TestHealth() {
	status, _ := s.do(http.MethodGet, "/api/health", nil, false)
	s.Equal(http.StatusOK, status)

	resp, err := http.Get(s.srv.URL + "/api/health/ready")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *routerSuite) TestUnauthenticated() {
	status, env := s.do(http.MethodPost, wellPath("Test Well", "/samples/cores"), map[string]any{"core_number": "C9"}, false)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal(code.UnLogin, env.Code)
}

func (s *routerSuite) TestWellConflict() {
	status, env := s.do(http.MethodPost, "/api/v1/wells", map[string]any{"well_name": "Test Well"}, true)
	s.Equal(http.StatusConflict, status)
	s.Equal(code.WellAlreadyExistErr, env.Code)
	s.Equal([]string{"This well already exists."}, env.Error.Fields["well_name"])

	status, env = s.do(http.MethodPost, "/api/v1/wells", map[string]any{"well_name": "TestWell"}, true)
	s.Equal(http.StatusConflict, status)
	s.Equal(code.WellAlreadyExistErr, env.Code)
	s.Equal([]string{"A well with short name TestWell already exists."}, env.Error.Fields["well_name"])

	status, env = s.do(http.MethodGet, "/api/v1/wells?page=1&page_size=5", nil, true)
	s.Equal(http.StatusOK, status)
	var page struct {
		Total int64 `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &page))
	s.GreaterOrEqual(page.Total, int64(1))
}

func (s *routerSuite) TestCoreFlow() {
	status, env := s.do(http.MethodGet, wellPath("Test Well", "/samples/cores/initial?core_number=C3"), nil, true)
	s.Require().Equal(http.StatusOK, status)
	var initial struct {
		ProposedSequence int64  `json:"proposed_sequence"`
		ProposedIdentity string `json:"proposed_identity"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &initial))
	s.Equal("TestWell-C3-1", initial.ProposedIdentity)

	payload := map[string]any{"core_number": "C3", "core_type": "Core", "top_depth": 1500}
	status, env = s.do(http.MethodPost, wellPath("Test Well", "/samples/cores"), payload, true)
	s.Require().Equal(http.StatusOK, status)
	var created struct {
		Name     string `json:"name"`
		Sequence int64  `json:"sequence"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Equal("TestWell-C3-1", created.Name)

	payload["core_section_number"] = 1
	status, env = s.do(http.MethodPost, wellPath("Test Well", "/samples/cores"), payload, true)
	s.Equal(http.StatusConflict, status)
	s.Equal(code.SampleNameConflictErr, env.Code)
	s.Contains(env.Error.Fields, "core_section_name")
	var conflict struct {
		SuggestedSequence int64 `json:"suggested_sequence"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &conflict))
	s.EqualValues(2, conflict.SuggestedSequence)

	status, env = s.do(http.MethodGet, wellPath("Test Well", "/samples/cores"), nil, true)
	s.Require().Equal(http.StatusOK, status)
	var list struct {
		Total int64 `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.GreaterOrEqual(list.Total, int64(1))
}

func (s *routerSuite) TestRejections() {
	status, env := s.do(http.MethodPost, wellPath("Nowhere", "/samples/corechips"), map[string]any{
		"core_number": "C1", "core_section_number": 1, "from_top_bottom": "Top",
	}, true)
	s.Equal(http.StatusNotFound, status)
	s.Contains(env.Error.Fields, "well")

	status, env = s.do(http.MethodPost, wellPath("Test Well", "/samples/cuttings"), map[string]any{
		"cuttings_depth": "deep",
	}, true)
	s.Equal(http.StatusBadRequest, status)
	s.Equal(code.SampleValidateErr, env.Code)
	s.Contains(env.Error.Fields, "cuttings_depth")
	s.Contains(env.Error.Fields, "sample_state")

	status, _ = s.do(http.MethodPost, wellPath("Test Well", "/samples/rocks"), map[string]any{}, true)
	s.Equal(http.StatusBadRequest, status)
}

func (s *routerSuite) TestWellFeed() {
	wsURL := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/api/v1/ws/wells/" + url.PathEscape("Test Well")
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	s.Require().NoError(err)
	defer conn.Close()
	// session registration completes after the upgrade
	time.Sleep(100 * time.Millisecond)

	status, _ := s.do(http.MethodPost, wellPath("Test Well", "/samples/microcores"), map[string]any{}, true)
	s.Require().Equal(http.StatusOK, status)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)
	var msg struct {
		Action string `json:"action"`
		Data   struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(raw, &msg))
	s.Equal("sample-registered", msg.Action)
	s.Equal("microcore", msg.Data.Kind)
	s.Equal("TestWell-MC-1", msg.Data.Name)
}

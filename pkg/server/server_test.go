package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/formkit/pkg/field"
	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/formctx"
	"github.com/vango-dev/formkit/pkg/protocol"
	"github.com/vango-dev/formkit/pkg/server"
)

// signup builds a form with a required name and a required email.
func signup(ctx context.Context, opts ...form.Option) (*form.Form, error) {
	f := form.New(opts...)
	name := field.NewItem("name", "", field.WithScope(f.Scope()),
		field.WithRules(field.Required("")))
	email := field.NewItem("email", "", field.WithScope(f.Scope()),
		field.WithRules(field.Required(""), field.Email("")))
	bio := field.NewItem("bio", "hello", field.WithScope(f.Scope()),
		field.WithRules(field.Custom("bio", func(v any) string {
			if v == "<script>x</script>" {
				return "<b>no</b> scripts"
			}
			return ""
		})))

	err := f.Mount(formctx.Options{
		ScrollToFirstError: formctx.ScrollSmooth,
		ResetType:          formctx.ResetInitial,
	}, name, email, bio)
	return f, err
}

type observer struct {
	mu       sync.Mutex
	opened   int
	closed   int
	rejected []string
}

func (o *observer) SessionOpened() { o.mu.Lock(); o.opened++; o.mu.Unlock() }
func (o *observer) SessionClosed() { o.mu.Lock(); o.closed++; o.mu.Unlock() }
func (o *observer) FrameRejected(kind string) {
	o.mu.Lock()
	o.rejected = append(o.rejected, kind)
	o.mu.Unlock()
}

func (o *observer) counts() (int, int, []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened, o.closed, append([]string(nil), o.rejected...)
}

func newTestServer(t *testing.T, build server.Builder, obs server.Observer) *httptest.Server {
	t.Helper()
	srv := server.New(build, &server.Config{
		Observer: obs,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, ev *protocol.Event) {
	t.Helper()
	frame := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	return frame
}

func readPatches(t *testing.T, conn *websocket.Conn) *protocol.PatchesFrame {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != protocol.FramePatches {
		t.Fatalf("frame type = %v, want Patches", frame.Type)
	}
	pf, err := protocol.DecodePatches(frame.Payload)
	if err != nil {
		t.Fatalf("DecodePatches: %v", err)
	}
	return pf
}

func readError(t *testing.T, conn *websocket.Conn) *protocol.ErrorMessage {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != protocol.FrameError {
		t.Fatalf("frame type = %v, want Error", frame.Type)
	}
	em, err := protocol.DecodeErrorMessage(frame.Payload)
	if err != nil {
		t.Fatalf("DecodeErrorMessage: %v", err)
	}
	return em
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, signup, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q, want 200 ok", resp.StatusCode, body)
	}
}

func TestValidateEndpoint(t *testing.T) {
	ts := newTestServer(t, signup, nil)

	tests := []struct {
		name     string
		body     string
		status   int
		valid    bool
		failing  []string
		errCode  string
		contains string
	}{
		{
			name:   "valid",
			body:   `{"values":{"name":"Ada","email":"ada@example.com"}}`,
			status: http.StatusOK,
			valid:  true,
		},
		{
			name:    "invalid",
			body:    `{"values":{"email":"nope"}}`,
			status:  http.StatusOK,
			failing: []string{"name", "email"},
		},
		{
			name:    "unknown field",
			body:    `{"values":{"nickname":"x"}}`,
			status:  http.StatusBadRequest,
			errCode: "F001",
		},
		{
			name:     "bad json",
			body:     `{"values":`,
			status:   http.StatusBadRequest,
			contains: "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/validate", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}

			var body map[string]json.RawMessage
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if tt.status != http.StatusOK {
				var er server.ErrorResponse
				raw, _ := json.Marshal(body)
				json.Unmarshal(raw, &er)
				if er.Code != tt.errCode {
					t.Errorf("code = %q, want %q", er.Code, tt.errCode)
				}
				if !strings.Contains(er.Message, tt.contains) {
					t.Errorf("message = %q, want it to contain %q", er.Message, tt.contains)
				}
				return
			}

			var valid bool
			json.Unmarshal(body["valid"], &valid)
			if valid != tt.valid {
				t.Errorf("valid = %v, want %v", valid, tt.valid)
			}
			if tt.valid {
				if string(body["result"]) != "true" {
					t.Errorf("result = %s, want true", body["result"])
				}
				return
			}

			var result map[string][]field.ErrorDescriptor
			if err := json.Unmarshal(body["result"], &result); err != nil {
				t.Fatalf("result: %v", err)
			}
			var got []string
			for _, name := range tt.failing {
				if len(result[name]) > 0 {
					got = append(got, name)
				}
			}
			if diff := cmp.Diff(tt.failing, got); diff != "" {
				t.Errorf("failing fields mismatch (-want +got):\n%s", diff)
			}
			if len(result) != len(tt.failing) {
				t.Errorf("result has %d fields, want %d", len(result), len(tt.failing))
			}
		})
	}
}

func TestValidateSanitizesMessages(t *testing.T) {
	ts := newTestServer(t, signup, nil)

	body := `{"values":{"name":"Ada","email":"ada@example.com","bio":"<script>x</script>"}}`
	resp, err := http.Post(ts.URL+"/validate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out struct {
		Valid  bool                               `json:"valid"`
		Result map[string][]field.ErrorDescriptor `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Valid {
		t.Fatal("valid = true, want false")
	}
	if got := out.Result["bio"][0].Message; got != "no scripts" {
		t.Errorf("bio message = %q, want %q", got, "no scripts")
	}
}

func TestSessionSubmit(t *testing.T) {
	ts := newTestServer(t, signup, nil)
	conn := dial(t, ts)

	send(t, conn, &protocol.Event{Seq: 1, Type: protocol.EventInput, Name: "name", Value: "Ada"})
	send(t, conn, &protocol.Event{Seq: 2, Type: protocol.EventInput, Name: "email", Value: "nope"})
	send(t, conn, &protocol.Event{Seq: 3, Type: protocol.EventSubmit, Target: "signup"})

	pf := readPatches(t, conn)
	want := []protocol.Patch{
		protocol.NewClearErrorsPatch("name"),
		protocol.NewFieldErrorsPatch("email", []string{"Invalid email address"}),
		protocol.NewClearErrorsPatch("bio"),
		protocol.NewResultPatch(false),
		protocol.NewScrollIntoViewPatch(".t-form-item__email", protocol.ScrollSmooth),
	}
	if diff := cmp.Diff(want, pf.Patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
	if pf.Seq != 1 {
		t.Errorf("Seq = %d, want 1", pf.Seq)
	}

	// Fixing the field gives a clean result without scrolling.
	send(t, conn, &protocol.Event{Seq: 4, Type: protocol.EventInput, Name: "email", Value: "ada@example.com"})
	send(t, conn, &protocol.Event{Seq: 5, Type: protocol.EventSubmit})

	pf = readPatches(t, conn)
	want = []protocol.Patch{
		protocol.NewClearErrorsPatch("name"),
		protocol.NewClearErrorsPatch("email"),
		protocol.NewClearErrorsPatch("bio"),
		protocol.NewResultPatch(true),
	}
	if diff := cmp.Diff(want, pf.Patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
	if pf.Seq != 2 {
		t.Errorf("Seq = %d, want 2", pf.Seq)
	}
}

func TestSessionSubmitInstantScroll(t *testing.T) {
	build := func(ctx context.Context, opts ...form.Option) (*form.Form, error) {
		f := form.New(opts...)
		name := field.NewItem("name", "", field.WithScope(f.Scope()),
			field.WithRules(field.Required("")))
		err := f.Mount(formctx.Options{ScrollToFirstError: formctx.ScrollInstant}, name)
		return f, err
	}
	ts := newTestServer(t, build, nil)
	conn := dial(t, ts)

	send(t, conn, &protocol.Event{Seq: 1, Type: protocol.EventSubmit})

	pf := readPatches(t, conn)
	want := []protocol.Patch{
		protocol.NewFieldErrorsPatch("name", []string{"This field is required"}),
		protocol.NewResultPatch(false),
		protocol.NewScrollIntoViewPatch(".t-form-item__name", protocol.ScrollInstant),
	}
	if diff := cmp.Diff(want, pf.Patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionReset(t *testing.T) {
	ts := newTestServer(t, signup, nil)
	conn := dial(t, ts)

	send(t, conn, &protocol.Event{Type: protocol.EventInput, Name: "bio", Value: "changed"})
	send(t, conn, &protocol.Event{Type: protocol.EventReset, Target: "signup"})

	pf := readPatches(t, conn)
	want := []protocol.Patch{
		protocol.NewClearErrorsPatch("name"),
		protocol.NewSetValuePatch("name", ""),
		protocol.NewClearErrorsPatch("email"),
		protocol.NewSetValuePatch("email", ""),
		protocol.NewClearErrorsPatch("bio"),
		protocol.NewSetValuePatch("bio", "hello"),
	}
	if diff := cmp.Diff(want, pf.Patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionUnknownField(t *testing.T) {
	ts := newTestServer(t, signup, nil)
	conn := dial(t, ts)

	send(t, conn, &protocol.Event{Type: protocol.EventInput, Name: "nickname", Value: "x"})

	em := readError(t, conn)
	if em.Code != protocol.ErrUnknownField {
		t.Errorf("Code = %v, want UnknownField", em.Code)
	}
	if em.Fatal {
		t.Error("Fatal = true, want false")
	}
}

func TestSessionPing(t *testing.T) {
	ts := newTestServer(t, signup, nil)
	conn := dial(t, ts)

	ping := protocol.EncodeControl(&protocol.Control{Type: protocol.ControlPing, Timestamp: 42})
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(protocol.FrameControl, ping).Encode()); err != nil {
		t.Fatal(err)
	}

	frame := readFrame(t, conn)
	if frame.Type != protocol.FrameControl {
		t.Fatalf("frame type = %v, want Control", frame.Type)
	}
	c, err := protocol.DecodeControl(frame.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if c.Type != protocol.ControlPong || c.Timestamp != 42 {
		t.Errorf("control = %+v, want Pong 42", c)
	}
}

func TestSessionRejectsBadFrames(t *testing.T) {
	obs := &observer{}
	ts := newTestServer(t, signup, obs)
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	if em := readError(t, conn); em.Code != protocol.ErrInvalidFrame {
		t.Errorf("Code = %v, want InvalidFrame", em.Code)
	}

	bad := protocol.NewFrame(protocol.FrameEvent, []byte{0x01, 0x7f})
	if err := conn.WriteMessage(websocket.BinaryMessage, bad.Encode()); err != nil {
		t.Fatal(err)
	}
	if em := readError(t, conn); em.Code != protocol.ErrInvalidEvent {
		t.Errorf("Code = %v, want InvalidEvent", em.Code)
	}

	_, _, rejected := obs.counts()
	if diff := cmp.Diff([]string{"frame", "event"}, rejected); diff != "" {
		t.Errorf("rejected mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionFieldFault(t *testing.T) {
	build := func(ctx context.Context, opts ...form.Option) (*form.Form, error) {
		f := form.New(opts...)
		broken := field.NewItem("broken", "", field.WithRules(field.RuleFunc(
			func(context.Context, any) error { return errors.New("backend down") },
		)))
		return f, f.Mount(formctx.Options{}, broken)
	}
	ts := newTestServer(t, build, nil)
	conn := dial(t, ts)

	send(t, conn, &protocol.Event{Type: protocol.EventSubmit})

	em := readError(t, conn)
	if em.Code != protocol.ErrFieldFault {
		t.Errorf("Code = %v, want FieldFault", em.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	obs := &observer{}
	ts := newTestServer(t, signup, obs)
	conn := dial(t, ts)

	// A round trip guarantees the session is registered.
	send(t, conn, &protocol.Event{Type: protocol.EventSubmit})
	readPatches(t, conn)

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		opened, closed, _ := obs.counts()
		if opened == 1 && closed == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("opened=%d closed=%d, want 1 and 1", opened, closed)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBuildFailure(t *testing.T) {
	build := func(context.Context, ...form.Option) (*form.Form, error) {
		return nil, errors.New("no definition")
	}
	ts := newTestServer(t, build, nil)
	conn := dial(t, ts)

	em := readError(t, conn)
	if !em.Fatal || em.Code != protocol.ErrServerError {
		t.Errorf("error = %+v, want fatal ServerError", em)
	}
}

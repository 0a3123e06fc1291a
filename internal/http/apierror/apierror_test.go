package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMessage_LocaleNegotiation(t *testing.T) {
	cases := []struct {
		accept string
		want   string
	}{
		{"", "이름, 제목, 문의 내용을 모두 입력해주세요."},
		{"ko-KR,ko;q=0.9", "이름, 제목, 문의 내용을 모두 입력해주세요."},
		{"en-US,en;q=0.9", "Please enter your name, a title and a message."},
		{"fr-FR", "이름, 제목, 문의 내용을 모두 입력해주세요."},
		{"ko;q=0.2,en;q=0.8", "Please enter your name, a title and a message."},
	}
	for _, tc := range cases {
		if got := Message(tc.accept, CodeValidation); got != tc.want {
			t.Fatalf("Message(%q) = %q, want %q", tc.accept, got, tc.want)
		}
	}
}

func TestMessage_UnknownCodeFallsBack(t *testing.T) {
	if got := Message("", "nope"); got != catalog[CodeInternal][0] {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestCatalog_EveryCodeHasBothLanguages(t *testing.T) {
	for code, msgs := range catalog {
		if msgs[0] == "" || msgs[1] == "" {
			t.Fatalf("code %s missing a translation", code)
		}
	}
}

func TestAbort_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-9")
		Abort(c, http.StatusInternalServerError, CodeListFailed)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.OK || body.Code != CodeListFailed || body.RequestID != "rid-9" ||
		body.Error != "문의 목록 조회 중 오류가 발생했습니다." {
		t.Fatalf("unexpected body: %+v", body)
	}
}

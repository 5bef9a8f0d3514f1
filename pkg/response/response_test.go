package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	return body
}

func TestOKPage_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     float64
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		OKPage(c, []string{}, tt.total, 1, tt.pageSize)

		body := decode(t, w)
		data := body["data"].(map[string]interface{})
		p := data["pagination"].(map[string]interface{})
		if p["total_pages"] != tt.want {
			t.Errorf("total=%d page_size=%d: 期望 total_pages=%v, 实际 %v", tt.total, tt.pageSize, tt.want, p["total_pages"])
		}
	}
}

func TestError_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "rid-1")

	Conflict(c, 40002, "已报名")

	if w.Code != http.StatusConflict {
		t.Fatalf("期望 409, 实际 %d", w.Code)
	}
	body := decode(t, w)
	if body["code"] != float64(40002) || body["request_id"] != "rid-1" {
		t.Errorf("响应信封不符合预期: %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Error("错误响应不应包含 data 字段")
	}
}

func TestInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	InternalError(c)

	body := decode(t, w)
	if body["code"] != float64(CodeInternal) {
		t.Errorf("期望 code=%d, 实际 %v", CodeInternal, body["code"])
	}
	if _, ok := body["details"]; ok {
		t.Error("500 响应不应包含 details")
	}
	if _, ok := body["request_id"]; ok {
		t.Error("未设置 request_id 时不应输出该字段")
	}
}

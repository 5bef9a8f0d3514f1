package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseTagSet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TagSet
	}{
		{"空串", "", TagSet{}},
		{"去空白与空项", " React , ,TypeScript ,", TagSet{"React", "TypeScript"}},
		{"去重保序", "Go,React,Go", TagSet{"Go", "React"}},
		{"区分大小写", "go,Go", TagSet{"go", "Go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTagSet(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTagSet(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagSet_Union(t *testing.T) {
	base := TagSet{"Basic", "React"}
	got := base.Union(ParseTagSet("React,TypeScript"))

	want := TagSet{"Basic", "React", "TypeScript"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Union = %v, want %v", got, want)
	}
	if len(base) != 2 {
		t.Errorf("Union 不应修改原集合, got %v", base)
	}
	for _, s := range base {
		if !got.Contains(s) {
			t.Errorf("并集应包含原成员 %q", s)
		}
	}
}

func TestTagSet_ScanValue(t *testing.T) {
	var ts TagSet
	if err := ts.Scan([]byte("a, b,a")); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	v, err := ts.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}
	if v != "a,b" {
		t.Errorf("Value = %v, want a,b", v)
	}

	if err := ts.Scan(nil); err != nil || len(ts) != 0 {
		t.Errorf("Scan(nil) 应得到空集合, got %v err=%v", ts, err)
	}
	if err := ts.Scan(42); err == nil {
		t.Error("Scan 不支持的类型应返回错误")
	}
}

func TestTagSet_JSON(t *testing.T) {
	var nilSet TagSet
	b, _ := json.Marshal(nilSet)
	if string(b) != "[]" {
		t.Errorf("空集合应序列化为 [], got %s", b)
	}

	var fromArr, fromStr TagSet
	if err := json.Unmarshal([]byte(`["x"," y ","x"]`), &fromArr); err != nil {
		t.Fatalf("数组反序列化失败: %v", err)
	}
	if err := json.Unmarshal([]byte(`"x, y"`), &fromStr); err != nil {
		t.Fatalf("字符串反序列化失败: %v", err)
	}
	want := TagSet{"x", "y"}
	if !reflect.DeepEqual(fromArr, want) || !reflect.DeepEqual(fromStr, want) {
		t.Errorf("got %v / %v, want %v", fromArr, fromStr, want)
	}
	if err := json.Unmarshal([]byte(`123`), &fromArr); err == nil {
		t.Error("数字应反序列化失败")
	}
}

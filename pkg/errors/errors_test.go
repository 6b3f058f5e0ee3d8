package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError(t *testing.T) {
	t.Run("基础错误格式", func(t *testing.T) {
		err := New(CodeNotFound, "资源不存在")
		if err.Error() != "[NOT_FOUND] 资源不存在" {
			t.Errorf("Error() = %q, expected [NOT_FOUND] 资源不存在", err.Error())
		}
		if err.HTTPStatus != http.StatusNotFound {
			t.Errorf("HTTPStatus = %d, expected %d", err.HTTPStatus, http.StatusNotFound)
		}
	})

	t.Run("包装底层错误", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := Wrap(cause, CodeDatabaseError, "查询失败")
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("Error() = %q, expected to contain cause", err.Error())
		}
		if err.Unwrap() != cause {
			t.Error("Unwrap() did not return the cause")
		}
	})

	t.Run("错误码匹配", func(t *testing.T) {
		err := New(CodeTimeout, "操作超时")
		if !Is(err, CodeTimeout) {
			t.Error("Is(CodeTimeout) = false, expected true")
		}
		if Is(err, CodeNotFound) {
			t.Error("Is(CodeNotFound) = true, expected false")
		}
		if GetCode(fmt.Errorf("plain")) != CodeUnknown {
			t.Error("GetCode(plain error) != CodeUnknown")
		}
	})
}

func TestValidationErrors_ToAppError(t *testing.T) {
	t.Run("消息包含全部字段", func(t *testing.T) {
		ve := &ValidationErrors{}
		ve.Add("grace_minutes", "不能为负数")
		ve.Add("default_break_minutes", "不能为负数")

		err := ve.ToAppError()
		if err.Code != CodeValidationFail {
			t.Errorf("Code = %s, expected %s", err.Code, CodeValidationFail)
		}
		for _, field := range []string{"grace_minutes", "default_break_minutes"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("Error %q does not mention field %q", err.Error(), field)
			}
		}
		if len(err.Fields) != 2 {
			t.Errorf("Fields = %d, expected 2", len(err.Fields))
		}
	})

	t.Run("无错误项保留默认消息", func(t *testing.T) {
		ve := &ValidationErrors{}
		err := ve.ToAppError()
		if err.Message != "验证失败" {
			t.Errorf("Message = %q, expected 验证失败", err.Message)
		}
	})
}

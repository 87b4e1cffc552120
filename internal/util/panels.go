package util

import (
	"encoding/json"
	"regexp"
	"strings"
)

var panelURLPattern = regexp.MustCompile(`https?://[^\s'"\\,\]})]+`)

const panelTrailingJunk = "\\/'\" \t"

// ParsePanelInput 解析管理员粘贴的面板地址：
// {"panels": [...]} 对象、字符串数组，或夹杂 URL 的任意文本。
// 只保留 http(s) 开头的地址。
func ParsePanelInput(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var urls []string
	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		switch v := decoded.(type) {
		case map[string]interface{}:
			if list, ok := v["panels"].([]interface{}); ok {
				urls = collectURLs(list)
			}
		case []interface{}:
			urls = collectURLs(v)
		}
	}

	if len(urls) == 0 {
		for _, u := range panelURLPattern.FindAllString(raw, -1) {
			urls = append(urls, strings.TrimRight(u, panelTrailingJunk+","))
		}
	}

	out := urls[:0]
	for _, u := range urls {
		if strings.HasPrefix(u, "http") {
			out = append(out, u)
		}
	}
	return out
}

func collectURLs(items []interface{}) []string {
	var urls []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok || !strings.HasPrefix(s, "http") {
			continue
		}
		urls = append(urls, strings.TrimRight(strings.TrimSpace(s), panelTrailingJunk))
	}
	return urls
}

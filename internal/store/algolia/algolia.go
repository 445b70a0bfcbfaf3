// Package algolia 解析 Algolia multi-queries 接口的落盘快照。
// fanatical 与 gmg 的价格快照都是这个包法：每行一页多查询应答（JSONL）。
package algolia

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// MultiResponse 一页多查询应答（game 与 dlc 两个结果组）
type MultiResponse[T any] struct {
	Results []Result[T] `json:"results"`
}

// Result 单个索引查询的一页命中
type Result[T any] struct {
	Hits        []T    `json:"hits"`
	NbHits      uint64 `json:"nbHits"`
	Page        uint64 `json:"page"`
	NbPages     uint64 `json:"nbPages"`
	HitsPerPage uint64 `json:"hitsPerPage"`
}

// 单页100条命中加全量facet，一行能到兆级
const maxLineBytes = 16 << 20

// DecodeHits 逐行解码快照并平铺所有命中，空行跳过
func DecodeHits[T any](raw []byte) ([]T, error) {
	var hits []T
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var page MultiResponse[T]
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("第%d行: %w", line, err)
		}
		for _, result := range page.Results {
			hits = append(hits, result.Hits...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

// Package store 汇集各商店快照解析器的公共工件。
// 具体每家店的 Reader 在各自子包里。
package store

import (
	"fmt"

	"GameDealSync/internal/canonical"
	"GameDealSync/internal/model"
)

// ParseError 快照文件格式损坏。整文件拒收，留在原地等人工处理或抓取方重投。
type ParseError struct {
	Store model.StoreType
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s快照解析失败: %v", e.Store, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewParseError(store model.StoreType, err error) *ParseError {
	return &ParseError{Store: store, Err: err}
}

// CollapseLowest 单文件内按规范化名收敛：同一规范化名出现多次
// （不同版本、重挂的促销位）只保留折后价最低的一条。
func CollapseLowest(observations []model.Observation) []model.Observation {
	best := make(map[string]int, len(observations))
	out := make([]model.Observation, 0, len(observations))
	for _, obs := range observations {
		cname := canonical.Canonicalize(obs.Core().Name)
		if idx, ok := best[cname]; ok {
			if obs.Core().DiscountPrice < out[idx].Core().DiscountPrice {
				out[idx] = obs
			}
			continue
		}
		best[cname] = len(out)
		out = append(out, obs)
	}
	return out
}

// Package usecase implements instrument lookup and catalog loading.
package usecase

import (
	"log/slog"
	"strings"

	"trademaster/internal/feature/instruments/domain/entity"
)

// DefaultExchange は取引所セグメントが指定されなかった場合に使用されます。
const DefaultExchange = "NSE"

// Resolve は人間が読めるティッカーをカタログ内のトークンに変換します。
//
// 末尾の "-EQ" を取り除いたベースティッカーを求め、以下をすべて満たす最初の銘柄を返します:
//   - 取引所セグメントが exchange と一致する
//   - シンボルが "-EQ" で終わる
//   - シンボルが ticker または base+"-EQ" と一致する、もしくは名前が base または ticker と一致する
//
// 見つからない場合は ok=false を返します。呼び出し側はそのティッカーをスキップします。
func Resolve(ticker string, instruments []entity.Instrument, exchange string) (token string, ok bool) {
	clean := strings.TrimSuffix(ticker, entity.EquitySuffix)
	for _, in := range instruments {
		if in.Exchange != exchange || !in.IsEquity() {
			continue
		}
		if in.Symbol == ticker || in.Symbol == clean+entity.EquitySuffix || in.Name == clean || in.Name == ticker {
			slog.Debug("resolved token", "ticker", ticker, "token", in.Token, "symbol", in.Symbol)
			return in.Token, true
		}
	}
	slog.Warn("token not found for ticker", "ticker", ticker, "exchange", exchange)
	return "", false
}

// Index is a lookup table built once from a catalog.
// It answers exactly what Resolve answers, in O(1) per call.
type Index struct {
	exchange string
	bySymbol map[string]indexEntry
	byName   map[string]indexEntry
}

type indexEntry struct {
	token string
	pos   int
}

// NewIndex builds an Index over the equities of one exchange segment.
func NewIndex(instruments []entity.Instrument, exchange string) *Index {
	idx := &Index{
		exchange: exchange,
		bySymbol: make(map[string]indexEntry),
		byName:   make(map[string]indexEntry),
	}
	for pos, in := range instruments {
		if in.Exchange != exchange || !in.IsEquity() {
			continue
		}
		if _, dup := idx.bySymbol[in.Symbol]; !dup {
			idx.bySymbol[in.Symbol] = indexEntry{token: in.Token, pos: pos}
		}
		if _, dup := idx.byName[in.Name]; !dup {
			idx.byName[in.Name] = indexEntry{token: in.Token, pos: pos}
		}
	}
	return idx
}

// Exchange returns the segment the index was built for.
func (idx *Index) Exchange() string {
	return idx.exchange
}

// Lookup resolves ticker against the index.
// Among all matching keys the earliest catalog position wins.
func (idx *Index) Lookup(ticker string) (string, bool) {
	clean := strings.TrimSuffix(ticker, entity.EquitySuffix)
	best := indexEntry{pos: -1}
	consider := func(e indexEntry, ok bool) {
		if ok && (best.pos < 0 || e.pos < best.pos) {
			best = e
		}
	}
	e, ok := idx.bySymbol[ticker]
	consider(e, ok)
	e, ok = idx.bySymbol[clean+entity.EquitySuffix]
	consider(e, ok)
	e, ok = idx.byName[clean]
	consider(e, ok)
	e, ok = idx.byName[ticker]
	consider(e, ok)
	if best.pos < 0 {
		return "", false
	}
	return best.token, true
}

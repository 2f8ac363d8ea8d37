// Package symbols normalizes and validates ticker symbols, including the
// crypto aliases that map a bare coin ticker onto an exchange-qualified
// quote symbol (BTC -> BINANCE:BTCUSDT).
package symbols

import (
	"regexp"
	"strings"
)

type Exchange string

const (
	ExchangeBinance  Exchange = "binance"
	ExchangeCoinbase Exchange = "coinbase"
)

var validSymbol = regexp.MustCompile(`^[A-Z0-9\-.:]{1,30}$`)

// substrings that indicate an injection attempt rather than a ticker
var blockedPatterns = []string{"SCRIPT", "EVAL", "FUNCTION", "JAVASCRIPT", "VBSCRIPT"}

type cryptoAlias struct {
	binance  string
	coinbase string
	name     string
}

var cryptoAliases = map[string]cryptoAlias{
	"BTC":   {binance: "BINANCE:BTCUSDT", coinbase: "COINBASE:BTC-USD", name: "Bitcoin"},
	"ETH":   {binance: "BINANCE:ETHUSDT", coinbase: "COINBASE:ETH-USD", name: "Ethereum"},
	"XRP":   {binance: "BINANCE:XRPUSDT", coinbase: "COINBASE:XRP-USD", name: "XRP"},
	"USDT":  {binance: "BINANCE:USDTUSDT", name: "Tether"},
	"BNB":   {binance: "BINANCE:BNBUSDT", name: "BNB"},
	"SOL":   {binance: "BINANCE:SOLUSDT", coinbase: "COINBASE:SOL-USD", name: "Solana"},
	"USDC":  {binance: "BINANCE:USDCUSDT", coinbase: "COINBASE:USDC-USD", name: "USDC"},
	"DOGE":  {binance: "BINANCE:DOGEUSDT", coinbase: "COINBASE:DOGE-USD", name: "Dogecoin"},
	"TRX":   {binance: "BINANCE:TRXUSDT", name: "TRON"},
	"ADA":   {binance: "BINANCE:ADAUSDT", coinbase: "COINBASE:ADA-USD", name: "Cardano"},
	"SUI":   {binance: "BINANCE:SUIUSDT", coinbase: "COINBASE:SUI-USD", name: "Sui"},
	"XLM":   {binance: "BINANCE:XLMUSDT", coinbase: "COINBASE:XLM-USD", name: "Stellar"},
	"LINK":  {binance: "BINANCE:LINKUSDT", coinbase: "COINBASE:LINK-USD", name: "Chainlink"},
	"HBAR":  {binance: "BINANCE:HBARUSDT", coinbase: "COINBASE:HBAR-USD", name: "Hedera"},
	"BCH":   {binance: "BINANCE:BCHUSDT", coinbase: "COINBASE:BCH-USD", name: "Bitcoin Cash"},
	"AVAX":  {binance: "BINANCE:AVAXUSDT", coinbase: "COINBASE:AVAX-USD", name: "Avalanche"},
	"LTC":   {binance: "BINANCE:LTCUSDT", coinbase: "COINBASE:LTC-USD", name: "Litecoin"},
	"TON":   {binance: "BINANCE:TONUSDT", name: "Toncoin"},
	"SHIB":  {binance: "BINANCE:SHIBUSDT", coinbase: "COINBASE:SHIB-USD", name: "Shiba Inu"},
	"UNI":   {binance: "BINANCE:UNIUSDT", coinbase: "COINBASE:UNI-USD", name: "Uniswap"},
	"DOT":   {binance: "BINANCE:DOTUSDT", coinbase: "COINBASE:DOT-USD", name: "Polkadot"},
	"XMR":   {binance: "BINANCE:XMRUSDT", name: "Monero"},
	"DAI":   {binance: "BINANCE:DAIUSDT", coinbase: "COINBASE:DAI-USD", name: "Dai"},
	"PEPE":  {binance: "BINANCE:PEPEUSDT", name: "Pepe"},
	"AAVE":  {binance: "BINANCE:AAVEUSDT", coinbase: "COINBASE:AAVE-USD", name: "Aave"},
	"NEAR":  {binance: "BINANCE:NEARUSDT", coinbase: "COINBASE:NEAR-USD", name: "NEAR Protocol"},
	"ETC":   {binance: "BINANCE:ETCUSDT", coinbase: "COINBASE:ETC-USD", name: "Ethereum Classic"},
	"ICP":   {binance: "BINANCE:ICPUSDT", coinbase: "COINBASE:ICP-USD", name: "Internet Computer"},
	"APT":   {binance: "BINANCE:APTUSDT", coinbase: "COINBASE:APT-USD", name: "Aptos"},
	"ALGO":  {binance: "BINANCE:ALGOUSDT", coinbase: "COINBASE:ALGO-USD", name: "Algorand"},
	"ARB":   {binance: "BINANCE:ARBUSDT", coinbase: "COINBASE:ARB-USD", name: "Arbitrum"},
	"VET":   {binance: "BINANCE:VETUSDT", name: "VeChain"},
	"ATOM":  {binance: "BINANCE:ATOMUSDT", coinbase: "COINBASE:ATOM-USD", name: "Cosmos"},
	"FIL":   {binance: "BINANCE:FILUSDT", coinbase: "COINBASE:FIL-USD", name: "Filecoin"},
	"INJ":   {binance: "BINANCE:INJUSDT", coinbase: "COINBASE:INJ-USD", name: "Injective"},
	"OP":    {binance: "BINANCE:OPUSDT", coinbase: "COINBASE:OP-USD", name: "Optimism"},
	"STX":   {binance: "BINANCE:STXUSDT", coinbase: "COINBASE:STX-USD", name: "Stacks"},
	"GRT":   {binance: "BINANCE:GRTUSDT", coinbase: "COINBASE:GRT-USD", name: "The Graph"},
	"LDO":   {binance: "BINANCE:LDOUSDT", coinbase: "COINBASE:LDO-USD", name: "Lido DAO"},
	"XTZ":   {binance: "BINANCE:XTZUSDT", coinbase: "COINBASE:XTZ-USD", name: "Tezos"},
	"SAND":  {binance: "BINANCE:SANDUSDT", coinbase: "COINBASE:SAND-USD", name: "The Sandbox"},
	"GALA":  {binance: "BINANCE:GALAUSDT", coinbase: "COINBASE:GALA-USD", name: "Gala"},
	"PAXG":  {binance: "BINANCE:PAXGUSDT", name: "PAX Gold"},
	"PYTH":  {binance: "BINANCE:PYTHUSDT", coinbase: "COINBASE:PYTH-USD", name: "Pyth Network"},
	"BONK":  {binance: "BINANCE:BONKUSDT", coinbase: "COINBASE:BONK-USD", name: "Bonk"},
	"WIF":   {binance: "BINANCE:WIFUSDT", name: "dogwifhat"},
	"FLOKI": {binance: "BINANCE:FLOKIUSDT", name: "FLOKI"},
	"SEI":   {binance: "BINANCE:SEIUSDT", coinbase: "COINBASE:SEI-USD", name: "Sei"},
	"TIA":   {binance: "BINANCE:TIAUSDT", coinbase: "COINBASE:TIA-USD", name: "Celestia"},
	"JUP":   {binance: "BINANCE:JUPUSDT", coinbase: "COINBASE:JUP-USD", name: "Jupiter"},
}

// symbols that exist both as listed tickers and as crypto aliases; these
// need the caller to ask the user which one they meant
var ambiguousSymbols = map[string]bool{
	"BTC":  true,
	"ETH":  true,
	"LINK": true,
}

// Normalize trims whitespace and uppercases a raw user-entered symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Valid reports whether a normalized symbol is safe to pass to a quote
// provider.
func Valid(symbol string) bool {
	if !validSymbol.MatchString(symbol) {
		return false
	}
	for _, pattern := range blockedPatterns {
		if strings.Contains(symbol, pattern) {
			return false
		}
	}
	return true
}

// IsCryptoAlias reports whether the symbol is a known bare coin ticker.
func IsCryptoAlias(symbol string) bool {
	_, ok := cryptoAliases[Normalize(symbol)]
	return ok
}

// IsAmbiguous reports whether the symbol could refer to either a listed
// security or a cryptocurrency.
func IsAmbiguous(symbol string) bool {
	return ambiguousSymbols[Normalize(symbol)]
}

// CryptoSymbol resolves a coin alias to its exchange-qualified quote
// symbol. The second return is false when the alias is unknown or the
// exchange does not list it; binance is the fallback listing.
func CryptoSymbol(alias string, exchange Exchange) (string, bool) {
	crypto, ok := cryptoAliases[Normalize(alias)]
	if !ok {
		return "", false
	}
	if exchange == ExchangeCoinbase && crypto.coinbase != "" {
		return crypto.coinbase, true
	}
	if crypto.binance != "" {
		return crypto.binance, true
	}
	return "", false
}

// Resolve normalizes a symbol and, when it is a known crypto alias,
// swaps in the binance quote symbol. Ambiguous symbols are left alone -
// resolving those is an interactive decision.
func Resolve(symbol string) string {
	normalized := Normalize(symbol)
	if IsAmbiguous(normalized) {
		return normalized
	}
	if resolved, ok := CryptoSymbol(normalized, ExchangeBinance); ok {
		return resolved
	}
	return normalized
}

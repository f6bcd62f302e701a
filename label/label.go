package label

// Symbol is an uppercase ISO-4217-like currency code. It is treated as
// opaque: whether a symbol is actually convertible is decided by the
// key set of the most recent rate snapshot, not by this package.
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Currency couples a symbol with its english display name
type Currency struct {
	Symbol Symbol
	Name   string
}

const (
	AED Symbol = "AED"
	AUD Symbol = "AUD"
	BGN Symbol = "BGN"
	BRL Symbol = "BRL"
	CAD Symbol = "CAD"
	CHF Symbol = "CHF"
	CNY Symbol = "CNY"
	CZK Symbol = "CZK"
	DKK Symbol = "DKK"
	EUR Symbol = "EUR"
	GBP Symbol = "GBP"
	HKD Symbol = "HKD"
	HRK Symbol = "HRK"
	HUF Symbol = "HUF"
	IDR Symbol = "IDR"
	ILS Symbol = "ILS"
	INR Symbol = "INR"
	ISK Symbol = "ISK"
	JPY Symbol = "JPY"
	KRW Symbol = "KRW"
	MXN Symbol = "MXN"
	MYR Symbol = "MYR"
	NOK Symbol = "NOK"
	NZD Symbol = "NZD"
	PHP Symbol = "PHP"
	PLN Symbol = "PLN"
	RON Symbol = "RON"
	RUB Symbol = "RUB"
	SEK Symbol = "SEK"
	SGD Symbol = "SGD"
	THB Symbol = "THB"
	TRY Symbol = "TRY"
	USD Symbol = "USD"
	ZAR Symbol = "ZAR"
)

// Currencies maps every symbol known to this package to its display
// data. Codes reported by a provider but absent here are still usable,
// they just render as the bare code.
var Currencies = map[Symbol]Currency{
	AED: {Symbol: AED, Name: "United Arab Emirates Dirham"},
	AUD: {Symbol: AUD, Name: "Australian Dollar"},
	BGN: {Symbol: BGN, Name: "Bulgarian Lev"},
	BRL: {Symbol: BRL, Name: "Brazilian Real"},
	CAD: {Symbol: CAD, Name: "Canadian Dollar"},
	CHF: {Symbol: CHF, Name: "Swiss Franc"},
	CNY: {Symbol: CNY, Name: "Chinese Yuan"},
	CZK: {Symbol: CZK, Name: "Czech Koruna"},
	DKK: {Symbol: DKK, Name: "Danish Krone"},
	EUR: {Symbol: EUR, Name: "Euro"},
	GBP: {Symbol: GBP, Name: "British Pound"},
	HKD: {Symbol: HKD, Name: "Hong Kong Dollar"},
	HRK: {Symbol: HRK, Name: "Croatian Kuna"},
	HUF: {Symbol: HUF, Name: "Hungarian Forint"},
	IDR: {Symbol: IDR, Name: "Indonesian Rupiah"},
	ILS: {Symbol: ILS, Name: "Israeli New Shekel"},
	INR: {Symbol: INR, Name: "Indian Rupee"},
	ISK: {Symbol: ISK, Name: "Icelandic Krona"},
	JPY: {Symbol: JPY, Name: "Japanese Yen"},
	KRW: {Symbol: KRW, Name: "South Korean Won"},
	MXN: {Symbol: MXN, Name: "Mexican Peso"},
	MYR: {Symbol: MYR, Name: "Malaysian Ringgit"},
	NOK: {Symbol: NOK, Name: "Norwegian Krone"},
	NZD: {Symbol: NZD, Name: "New Zealand Dollar"},
	PHP: {Symbol: PHP, Name: "Philippine Peso"},
	PLN: {Symbol: PLN, Name: "Polish Zloty"},
	RON: {Symbol: RON, Name: "Romanian Leu"},
	RUB: {Symbol: RUB, Name: "Russian Ruble"},
	SEK: {Symbol: SEK, Name: "Swedish Krona"},
	SGD: {Symbol: SGD, Name: "Singapore Dollar"},
	THB: {Symbol: THB, Name: "Thai Baht"},
	TRY: {Symbol: TRY, Name: "Turkish Lira"},
	USD: {Symbol: USD, Name: "United States Dollar"},
	ZAR: {Symbol: ZAR, Name: "South African Rand"},
}

// Name returns the display name for a symbol, falling back to the code
// itself for symbols this package does not know
func Name(s Symbol) string {
	if ccy, ok := Currencies[s]; ok {
		return ccy.Name
	}

	return s.String()
}

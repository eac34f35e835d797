package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	wordOnes  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	wordTens  = []string{"", "Ten", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	wordTeens = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
)

// numberToWordsIndian spells a non-negative integer in the Indian numbering
// system (Crore = 10^7, Lakh = 10^5, then Thousand/Hundred).
func numberToWordsIndian(n int64) string {
	var b strings.Builder
	writeWordsIndian(&b, n)
	return strings.TrimSpace(b.String())
}

func writeWordsIndian(b *strings.Builder, n int64) {
	if n >= 10000000 {
		writeWordsIndian(b, n/10000000)
		b.WriteString("Crore ")
		n %= 10000000
	}
	if n >= 100000 {
		writeWordsIndian(b, n/100000)
		b.WriteString("Lakh ")
		n %= 100000
	}
	if n >= 1000 {
		writeWordsIndian(b, n/1000)
		b.WriteString("Thousand ")
		n %= 1000
	}
	if n >= 100 {
		b.WriteString(wordOnes[n/100])
		b.WriteString(" Hundred ")
		n %= 100
	}
	if n >= 20 {
		b.WriteString(wordTens[n/10])
		b.WriteString(" ")
		n %= 10
	} else if n >= 10 {
		b.WriteString(wordTeens[n-10])
		b.WriteString(" ")
		n = 0
	}
	if n > 0 {
		b.WriteString(wordOnes[n])
		b.WriteString(" ")
	}
}

// AmountInWords converts a currency amount (a number string, optionally
// carrying a rupee symbol and thousands separators) into English words:
// "Rupees <integer part> Paise <fraction> Only". A zero amount yields the
// literal "Zero", and an unparsable input yields "" so callers can treat it
// as a soft formatting failure.
//
// Parsing uses decimal arithmetic so amounts like "1234.50" keep their
// exact paise value instead of drifting through a binary float.
func AmountInWords(amount string) string {
	clean := strings.ReplaceAll(amount, "₹", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return ""
	}

	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, "Rupees "+numberToWordsIndian(rupees))
	}
	if paise > 0 {
		parts = append(parts, "Paise "+numberToWordsIndian(paise))
	}
	if len(parts) == 0 {
		return "Zero"
	}
	return strings.Join(parts, " ") + " Only"
}

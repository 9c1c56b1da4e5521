// Package langhint provides best-effort language detection for free text
package langhint

import (
	"errors"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUndetermined is returned when no language could be inferred
var ErrUndetermined = errors.New("langhint: language undetermined")

// Language is a detected language code with its English display name
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Unknown is the placeholder used when detection fails
var Unknown = Language{Code: "unknown", Name: "Unknown"}

// Options tunes the detector
type Options struct {
	// MinLetters is the letter count a decisive script needs before it wins outright
	MinLetters int
	// MinConfidence rejects statistical guesses below this confidence, 0 accepts all
	MinConfidence float64
}

// Detector combines a script pass with statistical trigram detection
// safe for concurrent use
type Detector struct {
	opts Options
}

// statistical is a seam over whatlanggo returning an ISO code and confidence
var statistical = func(s string) (string, float64) {
	info := whatlanggo.Detect(s)
	if info.Lang < 0 {
		return "", 0
	}
	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	return code, info.Confidence
}

// New constructs a Detector
func New(o Options) *Detector {
	if o.MinLetters <= 0 {
		o.MinLetters = 2
	}
	return &Detector{opts: o}
}

// Detect returns the language of text or ErrUndetermined
func (d *Detector) Detect(text string) (Language, error) {
	if strings.TrimSpace(text) == "" {
		return Unknown, ErrUndetermined
	}
	if _, lang := DetectScriptAndLang(text, d.opts.MinLetters); lang != "" {
		return Language{Code: lang, Name: Name(lang)}, nil
	}
	code, conf := statistical(text)
	if code == "" || conf < d.opts.MinConfidence {
		return Unknown, ErrUndetermined
	}
	code = strings.ToLower(code)
	return Language{Code: code, Name: Name(code)}, nil
}

// Name resolves an English display name for a language code
// region suffixes like zh-cn resolve through their base subtag
// unknown codes fall back to the upper-cased code
func Name(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return Unknown.Name
	}
	base, _, _ := strings.Cut(strings.ToLower(code), "-")
	tag, err := language.Parse(base)
	if err != nil || tag == language.Und {
		return strings.ToUpper(code)
	}
	if n := display.English.Languages().Name(tag); n != "" {
		return n
	}
	return strings.ToUpper(code)
}

// DetectScriptAndLang returns the predominant script name and, for scripts that map to a
// single language with low ambiguity, a BCP-47 code once minLetters letters were seen
func DetectScriptAndLang(s string, minLetters int) (script string, lang string) {
	var (
		latin, cyrillic, greek, han, hira, kata, hangul int
		arabic, hebrew, thai, georgian, armenian        int
		devanagari                                      int
		totalLetters                                    int
	)

	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		totalLetters++

		switch {
		case unicode.In(r, unicode.Hangul):
			hangul++
		case unicode.In(r, unicode.Hiragana):
			hira++
		case unicode.In(r, unicode.Katakana):
			kata++
		case unicode.In(r, unicode.Han):
			han++
		case unicode.In(r, unicode.Arabic):
			arabic++
		case unicode.In(r, unicode.Hebrew):
			hebrew++
		case unicode.In(r, unicode.Thai):
			thai++
		case unicode.In(r, unicode.Greek):
			greek++
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		case unicode.In(r, unicode.Georgian):
			georgian++
		case unicode.In(r, unicode.Armenian):
			armenian++
		case unicode.In(r, unicode.Devanagari):
			devanagari++
		case unicode.In(r, unicode.Latin):
			latin++
		}
	}

	type sc struct {
		name string
		cnt  int
	}
	cands := []sc{
		{"Hiragana", hira},
		{"Katakana", kata},
		{"Hangul", hangul},
		{"Han", han},
		{"Arabic", arabic},
		{"Hebrew", hebrew},
		{"Thai", thai},
		{"Greek", greek},
		{"Cyrillic", cyrillic},
		{"Georgian", georgian},
		{"Armenian", armenian},
		{"Devanagari", devanagari},
		{"Latin", latin},
	}
	var best sc
	for _, c := range cands {
		if c.cnt > best.cnt {
			best = c
		}
	}
	script = best.name

	if totalLetters < minLetters {
		return script, ""
	}
	switch {
	case hira > 0 || kata > 0:
		lang = "ja"
	case hangul > 0:
		lang = "ko"
	// Arabic, Han, Cyrillic and Devanagari are shared by several languages
	// and go to the statistical pass
	case best.name == "Hebrew":
		lang = "he"
	case best.name == "Thai":
		lang = "th"
	case best.name == "Greek":
		lang = "el"
	case best.name == "Georgian":
		lang = "ka"
	case best.name == "Armenian":
		lang = "hy"
	}
	return script, lang
}

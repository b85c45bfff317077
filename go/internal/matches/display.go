package matches

import (
	"fmt"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/mcdev12/matchbook/go/internal/models"
)

// Message keys, also the English text
const (
	msgMatchesScheduled = "%d matches scheduled"
	msgMatchAdded       = "Match for %s added successfully!"
	msgMatchRemoved     = "The match was removed successfully"
	msgRequiredFields   = "Please fill in all required fields"
	msgNoMatches        = "No matches scheduled"
	msgPlayers          = "%d players"
)

var supportedLanguages = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("failed to build message catalog: %v", err))
		}
	}

	pt := language.BrazilianPortuguese
	must(b.Set(pt, msgMatchesScheduled, plural.Selectf(1, "%d",
		"=1", "%d partida agendada",
		"other", "%d partidas agendadas")))
	must(b.SetString(pt, msgMatchAdded, "Partida para %s adicionada com sucesso!"))
	must(b.SetString(pt, msgMatchRemoved, "A partida foi removida com sucesso"))
	must(b.SetString(pt, msgRequiredFields, "Por favor preencha todos os campos obrigatórios"))
	must(b.SetString(pt, msgNoMatches, "Nenhuma partida agendada"))
	must(b.Set(pt, msgPlayers, plural.Selectf(1, "%d",
		"=1", "%d jogador",
		"other", "%d jogadores")))

	en := language.English
	must(b.Set(en, msgMatchesScheduled, plural.Selectf(1, "%d",
		"=1", "%d match scheduled",
		"other", "%d matches scheduled")))
	must(b.SetString(en, msgMatchAdded, msgMatchAdded))
	must(b.SetString(en, msgMatchRemoved, msgMatchRemoved))
	must(b.SetString(en, msgRequiredFields, msgRequiredFields))
	must(b.SetString(en, msgNoMatches, msgNoMatches))
	must(b.Set(en, msgPlayers, plural.Selectf(1, "%d",
		"=1", "%d player",
		"other", "%d players")))
	return b
}

var (
	ptWeekdays = [...]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"}
	ptMonths   = [...]string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}
)

// Presenter renders user-facing text for a language
type Presenter struct {
	tag     language.Tag
	printer *message.Printer
	loc     *time.Location
}

// NewPresenter picks the closest supported language to lang
func NewPresenter(lang string, loc *time.Location) (*Presenter, error) {
	requested, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	_, idx, _ := languageMatcher.Match(requested)
	tag := supportedLanguages[idx]
	if loc == nil {
		loc = time.Local
	}
	return &Presenter{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
		loc:     loc,
	}, nil
}

func (p *Presenter) Language() language.Tag { return p.tag }

// DayHeading renders a full date, e.g. "sábado, 01 de junho de 2024"
func (p *Presenter) DayHeading(date time.Time) string {
	d := date.In(p.loc)
	if p.tag == language.BrazilianPortuguese {
		return fmt.Sprintf("%s, %02d de %s de %d", ptWeekdays[d.Weekday()], d.Day(), ptMonths[d.Month()-1], d.Year())
	}
	return d.Format("Monday, January 02, 2006")
}

// DaySummary renders the pluralized match count of a day
func (p *Presenter) DaySummary(count int) string {
	return p.printer.Sprintf(msgMatchesScheduled, count)
}

func (p *Presenter) MatchAdded(customerName string) string {
	return p.printer.Sprintf(msgMatchAdded, customerName)
}

func (p *Presenter) MatchRemoved() string {
	return p.printer.Sprintf(msgMatchRemoved)
}

func (p *Presenter) RequiredFields() string {
	return p.printer.Sprintf(msgRequiredFields)
}

func (p *Presenter) NoMatches() string {
	return p.printer.Sprintf(msgNoMatches)
}

// ValidationNotice renders err for the user. Missing fields get the generic notice.
func (p *Presenter) ValidationNotice(err *ValidationError) string {
	if err.Required {
		return p.RequiredFields()
	}
	return err.Error()
}

// MatchTypeLabel is the display name of a match type
func (p *Presenter) MatchTypeLabel(t models.MatchType) string {
	switch t {
	case models.MatchTypeGellyball:
		return "Gellyball"
	default:
		return "Paintball"
	}
}

// PlayersLabel renders the player count line
func (p *Presenter) PlayersLabel(count int) string {
	return p.printer.Sprintf(msgPlayers, count)
}

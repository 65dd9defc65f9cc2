package reconcile

import (
	"strings"

	"github.com/ticketagent/marketplace/internal/domain/team"
)

// MatchMethod records which resolution strategy produced a team match.
type MatchMethod string

const (
	MatchNone           MatchMethod = ""
	MatchSupplierRef    MatchMethod = "supplier_ref"
	MatchExactName      MatchMethod = "exact_name"
	MatchNormalizedName MatchMethod = "normalized_name"
	MatchAlias          MatchMethod = "alias"
	MatchPartial        MatchMethod = "partial"
)

// TeamQuery identifies a team as an external feed names it.
type TeamQuery struct {
	Name       string
	ExternalID string
	SupplierID string

	// LeagueID, when set, scopes the partial-match fallback to teams of
	// one league. The stronger strategies ignore it.
	LeagueID string
}

// TeamResolver maps supplier team identities onto local teams. It is
// built once per run from the full team catalogue and is read-only
// afterwards, so it is safe for concurrent use.
type TeamResolver struct {
	teams        []team.Team
	bySupplier   map[string]map[string]int
	byExactName  map[string]int
	byNormalized map[string]int

	// normalized keys shared by more than one team; the normalized
	// strategy refuses these and lets the query fall through.
	ambiguous map[string]struct{}

	aliases *AliasTable
}

func NewTeamResolver(teams []team.Team, aliases *AliasTable) *TeamResolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}

	r := &TeamResolver{
		teams:        teams,
		bySupplier:   make(map[string]map[string]int),
		byExactName:  make(map[string]int),
		byNormalized: make(map[string]int),
		ambiguous:    make(map[string]struct{}),
		aliases:      aliases,
	}

	for i, t := range teams {
		for _, ref := range t.SupplierRefs {
			keys := r.bySupplier[ref.SupplierID]
			if keys == nil {
				keys = make(map[string]int)
				r.bySupplier[ref.SupplierID] = keys
			}
			if ref.ExternalTeamID != "" {
				keys[ref.ExternalTeamID] = i
			}
			if ref.ExternalTeamName != "" {
				keys[strings.ToLower(ref.ExternalTeamName)] = i
			}
		}

		for _, name := range []string{t.NameEn, t.NameLocal} {
			if name == "" {
				continue
			}
			r.byExactName[strings.ToLower(name)] = i

			key := Normalize(name)
			if key == "" {
				continue
			}
			if prev, ok := r.byNormalized[key]; ok && teams[prev].ID != t.ID {
				r.ambiguous[key] = struct{}{}
				continue
			}
			r.byNormalized[key] = i
		}
	}

	return r
}

// Resolve tries each strategy in order and returns the first hit along
// with the method that produced it. A nil team means the record needs a
// manual mapping, not that something failed.
func (r *TeamResolver) Resolve(q TeamQuery) (*team.Team, MatchMethod) {
	if t := r.bySupplierRef(q); t != nil {
		return t, MatchSupplierRef
	}
	if t := r.byName(q.Name); t != nil {
		return t, MatchExactName
	}
	if t := r.byNormalizedName(q.Name); t != nil {
		return t, MatchNormalizedName
	}
	if canonical, ok := r.aliases.Canonical(q.Name); ok {
		if t := r.byName(canonical); t != nil {
			return t, MatchAlias
		}
		if t := r.byNormalizedName(canonical); t != nil {
			return t, MatchAlias
		}
	}
	if t := r.byPartialName(q); t != nil {
		return t, MatchPartial
	}

	return nil, MatchNone
}

func (r *TeamResolver) bySupplierRef(q TeamQuery) *team.Team {
	if q.SupplierID == "" {
		return nil
	}
	keys := r.bySupplier[q.SupplierID]
	if keys == nil {
		return nil
	}
	if q.ExternalID != "" {
		if i, ok := keys[q.ExternalID]; ok {
			return &r.teams[i]
		}
	}
	if q.Name != "" {
		if i, ok := keys[strings.ToLower(q.Name)]; ok {
			return &r.teams[i]
		}
	}

	return nil
}

func (r *TeamResolver) byName(name string) *team.Team {
	if name == "" {
		return nil
	}
	if i, ok := r.byExactName[strings.ToLower(name)]; ok {
		return &r.teams[i]
	}

	return nil
}

func (r *TeamResolver) byNormalizedName(name string) *team.Team {
	key := Normalize(name)
	if key == "" {
		return nil
	}
	if _, clash := r.ambiguous[key]; clash {
		return nil
	}
	if i, ok := r.byNormalized[key]; ok {
		return &r.teams[i]
	}

	return nil
}

// byPartialName is the widest strategy: substring containment between
// normalized names. Short keys are refused outright and a query hitting
// more than one candidate resolves to nothing.
func (r *TeamResolver) byPartialName(q TeamQuery) *team.Team {
	key := Normalize(q.Name)
	if len(key) < 4 {
		return nil
	}

	found := -1
	for i, t := range r.teams {
		if q.LeagueID != "" && !t.InLeague(q.LeagueID) {
			continue
		}
		if !partialMatch(key, Normalize(t.NameEn)) && !partialMatch(key, Normalize(t.NameLocal)) {
			continue
		}
		if found >= 0 && r.teams[found].ID != t.ID {
			return nil
		}
		found = i
	}
	if found < 0 {
		return nil
	}

	return &r.teams[found]
}

func partialMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

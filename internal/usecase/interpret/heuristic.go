package interpret

import (
	"slices"
	"strings"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
)

type keywordSet struct {
	cat   category.Category
	words []string
}

// categoryKeywords is scanned in order for every token.
var categoryKeywords = []keywordSet{
	{category.Venue, []string{
		"lieu", "lieux", "salle", "château", "chateau", "domaine", "manoir", "auberge", "ferme",
		"grange", "moulin", "hôtel", "hotel", "péniche", "peniche", "mas", "bastide", "abbaye",
		"réception", "reception",
	}},
	{category.Caterer, []string{"traiteur", "traiteurs", "buffet", "repas", "cuisinier", "chef", "cocktail"}},
	{category.Photographer, []string{"photographe", "photographes", "photo", "photos", "photographie"}},
	{category.Videographer, []string{"vidéaste", "videaste", "vidéo", "video", "film", "drone"}},
	{category.Music, []string{"dj", "musique", "musicien", "musiciens", "orchestre", "groupe", "chanteur", "chanteuse"}},
	{category.Vehicle, []string{"voiture", "voitures", "limousine", "calèche", "caleche", "transport"}},
	{category.Decoration, []string{"décoration", "decoration", "déco", "deco", "décorateur", "decorateur"}},
	{category.Florist, []string{"fleuriste", "fleurs", "fleur", "bouquet", "florale"}},
	{category.WeddingPlanner, []string{"planner", "organisateur", "organisatrice", "organisation"}},
	{category.Entertainment, []string{"animation", "animateur", "magicien", "photobooth"}},
	{category.Beauty, []string{"coiffure", "coiffeur", "coiffeuse", "maquillage", "maquilleuse", "beauté", "beaute"}},
	{category.Attire, []string{"robe", "robes", "costume", "costumes", "tenue", "tenues", "couturier", "couturière"}},
	{category.Officiant, []string{"officiant", "officiante", "laïque", "laique"}},
	{category.Stationery, []string{"faire-part", "papeterie", "invitations"}},
}

// places maps recognized tokens to the locality name used for retrieval.
var places = map[string]string{
	"paris":       "Paris",
	"lyon":        "Lyon",
	"marseille":   "Marseille",
	"bordeaux":    "Bordeaux",
	"toulouse":    "Toulouse",
	"nice":        "Nice",
	"nantes":      "Nantes",
	"strasbourg":  "Strasbourg",
	"montpellier": "Montpellier",
	"lille":       "Lille",
	"rennes":      "Rennes",
	"reims":       "Reims",
	"annecy":      "Annecy",
	"avignon":     "Avignon",
	"biarritz":    "Biarritz",
	"provence":    "Provence",
	"bretagne":    "Bretagne",
	"normandie":   "Normandie",
	"alsace":      "Alsace",
	"bourgogne":   "Bourgogne",
	"champagne":   "Champagne",
	"loire":       "Loire",
	"dordogne":    "Dordogne",
	"savoie":      "Savoie",
	"corse":       "Corse",
	"occitanie":   "Occitanie",
}

var venueFeatures = []string{
	"château", "chateau", "domaine", "manoir", "auberge", "ferme", "grange", "moulin",
	"péniche", "bastide", "abbaye", "mas", "salle",
	"piscine", "jardin", "parc", "terrasse", "plage", "parking",
}

var styles = []string{
	"champêtre", "champetre", "bohème", "boheme", "chic", "vintage", "moderne",
	"romantique", "industriel", "rustique", "élégant", "elegant",
}

// classifyHeuristic builds criteria from keyword matches on whitespace tokens.
// Matched categories accumulate in scan order; no match yields the default category.
func classifyHeuristic(q string) criteria.SearchCriteria {
	var out criteria.SearchCriteria

	for _, tok := range strings.Fields(q) {
		for _, set := range categoryKeywords {
			if slices.Contains(set.words, tok) && !slices.Contains(out.ServiceType, set.cat) {
				out.ServiceType = append(out.ServiceType, set.cat)
			}
		}
		if out.Location == "" {
			if place, ok := places[tok]; ok {
				out.Location = place
			}
		}
		if slices.Contains(venueFeatures, tok) && !slices.Contains(out.Features, tok) {
			out.Features = append(out.Features, tok)
		}
		if slices.Contains(styles, tok) && !slices.Contains(out.Style, tok) {
			out.Style = append(out.Style, tok)
		}
	}

	return out.WithDefaults()
}

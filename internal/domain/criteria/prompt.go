package criteria

import (
	"fmt"
	"strings"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
)

// SystemPrompt is the fixed instruction sent to external classifiers.
// It enumerates the category tags and the reply shape Decode accepts.
func SystemPrompt() string {
	tags := category.Strings(category.All())
	return fmt.Sprintf(`Tu es un assistant qui analyse des recherches de prestataires de mariage en France.
Réponds uniquement avec un objet JSON valide, sans texte autour, au format (schéma %s) :
{
  "serviceType": [string],
  "location": string,
  "budget": {"min": number, "max": number},
  "capacity": {"min": number, "max": number},
  "date": string,
  "features": [string],
  "style": [string]
}
serviceType contient une ou plusieurs valeurs parmi : %s.
Si aucun type n'est identifiable, utilise ["%s"].
Omets budget et capacity s'ils ne sont pas mentionnés. Les listes vides s'écrivent [].`,
		SchemaVersion, strings.Join(tags, ", "), category.Default)
}

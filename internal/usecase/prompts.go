package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"SeoForge/internal/domain"
	"SeoForge/internal/niche"
	"SeoForge/internal/textutil"
)

const (
	contentTemperature = 0.7
	contentMaxTokens   = 4000
	metaTemperature    = 0.5
	metaMaxTokens      = 500
	newsTemperature    = 0.7
	newsMaxTokens      = 500
	ideasTemperature   = 0.8
	ideasMaxTokens     = 500

	metaContentPrefix = 1000
	promptFeatures    = 3
)

var toneInstructions = map[domain.Tone]string{
	domain.ToneProfessional: "Adopte un ton professionnel et expert, avec un vocabulaire précis.",
	domain.ToneCasual:       "Adopte un ton décontracté et accessible, comme si tu parlais à un ami.",
	domain.ToneEnthusiastic: "Adopte un ton enthousiaste et passionné, tout en restant crédible.",
}

var articleOutlines = map[domain.ArticleType]string{
	domain.ArticleReview: `Écris un test/review détaillé et objectif sur: %s

Structure attendue:
1. Introduction accrocheuse
2. Présentation du produit
3. Caractéristiques principales
4. Points forts (avec liste)
5. Points faibles (avec liste)
6. Notre avis
7. Conclusion avec verdict

Le contenu doit être:
- Honnête et équilibré
- Basé sur une analyse approfondie
- Utile pour le lecteur qui hésite à acheter
- Optimisé SEO avec le mot-clé principal
`,
	domain.ArticleGuide: `Écris un guide d'achat complet sur: %s

Structure attendue:
1. Introduction expliquant pourquoi ce guide est utile
2. Les critères essentiels à considérer avant l'achat
3. Les différents types/catégories de produits
4. Les erreurs à éviter
5. Notre sélection recommandée
6. FAQ (3-5 questions fréquentes)
7. Conclusion avec conseils finaux

Le contenu doit être:
- Éducatif et informatif
- Structuré avec des sous-titres clairs
- Pratique avec des conseils actionables
- Optimisé SEO
`,
	domain.ArticleComparison: `Écris un comparatif détaillé: %s

Structure attendue:
1. Introduction présentant les produits comparés
2. Tableau récapitulatif des caractéristiques
3. Comparaison détaillée critère par critère
4. Pour quel profil d'utilisateur chaque produit ?
5. Notre verdict final
6. Conclusion

Le contenu doit être:
- Objectif et factuel
- Avec des comparaisons précises
- Utile pour aider à choisir
- Optimisé SEO
`,
	domain.ArticleTop: `Écris un article "TOP/Meilleurs" sur: %s

Structure attendue:
1. Introduction expliquant la méthodologie de sélection
2. Liste numérotée des produits (du meilleur au moins bien)
3. Pour chaque produit:
   - Titre avec position (#1, #2, etc.)
   - Description courte
   - Points forts
   - Points faibles
   - Pour qui ?
   - Prix indicatif
4. Conclusion avec récapitulatif

Le contenu doit être:
- Engageant et facile à parcourir
- Avec un classement justifié
- Utile pour décider rapidement
- Optimisé SEO
`,
}

const metaSystemPrompt = `Tu génères des métadonnées SEO optimisées pour des articles d'affiliation.
Réponds uniquement en JSON valide avec ce format exact:
{
  "title": "Titre accrocheur de l'article (max 60 caractères)",
  "seoTitle": "Titre SEO optimisé avec mot-clé principal (max 60 caractères)",
  "seoDescription": "Meta description engageante avec call-to-action (max 155 caractères)",
  "excerpt": "Résumé de l'article en 2-3 phrases (max 200 caractères)",
  "tags": ["tag1", "tag2", "tag3"]
}`

const newsSystemPrompt = "Tu es un assistant qui génère des résumés d'actualités au format JSON. Tu réponds uniquement en JSON valide."

const ideasSystemPrompt = `Tu es un expert en stratégie de contenu pour les blogs d'affiliation.
Génère des idées d'articles qui ont un fort potentiel SEO et de conversion.
Réponds uniquement avec une liste JSON de titres d'articles.`

func articleSystemPrompt(blog domain.Blog, tone domain.Tone, keywords []string) string {
	kw := strings.Join(keywords, ", ")
	if kw == "" {
		kw = "aucun spécifié"
	}

	return fmt.Sprintf(`Tu es un rédacteur expert en contenu d'affiliation pour le blog "%s" dans la niche "%s".

Règles importantes:
- Écris en français
- Utilise le format HTML pour le contenu (h2, h3, p, ul, li, strong, em)
- N'utilise JAMAIS de h1 (le titre sera ajouté séparément)
- Inclus des appels à l'action naturels vers Amazon
- Pour chaque produit mentionné, inclus un bouton d'achat avec l'ASIN
- %s
- Mots-clés à intégrer naturellement: %s

Format des liens affiliés à utiliser:
<a href="AFFILIATE_LINK_ASIN_HERE" class="affiliate-btn" target="_blank" rel="nofollow sponsored">Voir sur Amazon</a>

Remplace ASIN_HERE par l'ASIN du produit.`, blog.Name, blog.Niche, toneInstructions[tone], kw)
}

func articleUserPrompt(typ domain.ArticleType, subject string, products []domain.Product) string {
	return fmt.Sprintf(articleOutlines[typ], subject) + "\n" + productContext(products)
}

// productContext renders the grounding block listing each product with its
// price, rating, leading features and external id.
func productContext(products []domain.Product) string {
	if len(products) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nProduits à inclure dans l'article:\n")
	for i, p := range products {
		fmt.Fprintf(&b, "\n%d. %s", i+1, p.Title)
		if p.Price != nil && *p.Price != 0 {
			fmt.Fprintf(&b, " - %s€", formatNumber(*p.Price))
		}
		if p.Rating != nil && *p.Rating != 0 {
			fmt.Fprintf(&b, " - Note: %s/5", formatNumber(*p.Rating))
		}
		if len(p.Features) > 0 {
			fmt.Fprintf(&b, "\n   Caractéristiques: %s", strings.Join(leading(p.Features, promptFeatures), ", "))
		}
		fmt.Fprintf(&b, "\n   ASIN: %s", p.ExternalID)
	}
	return b.String()
}

func metaUserPrompt(blog domain.Blog, typ domain.ArticleType, subject, content string) string {
	return fmt.Sprintf(`Génère les métadonnées pour cet article de type "%s" sur le sujet: "%s"

Blog: %s
Niche: %s

Contenu de l'article (début):
%s...`, typ, subject, blog.Name, blog.Niche, textutil.Truncate(content, metaContentPrefix))
}

func newsUserPrompt(item domain.ScrapedNewsItem, nicheName string) string {
	ctx := niche.ContextFor(nicheName)

	return fmt.Sprintf(`Tu es le rédacteur en chef d'un %s.

Ton blog propose des tests, comparatifs et guides d'achat pour ces types de produits : %s.

OBJECTIF : Transformer cette actualité en contenu pertinent pour tes lecteurs qui cherchent des conseils d'achat.

Actualité source :
- Titre : "%s"
- Source : %s
- Extrait : "%s"

INSTRUCTIONS :
1. Reformule COMPLÈTEMENT avec tes propres mots (jamais de copie)
2. Oriente le résumé vers l'INTÉRÊT PRATIQUE pour un acheteur potentiel
3. Si l'actu parle d'un nouveau produit → mentionne pourquoi c'est intéressant à suivre
4. Si c'est une tendance marché → explique l'impact sur les choix d'achat
5. Si l'actu n'est pas pertinente pour un guide d'achat → retourne null

Génère un JSON avec cette structure :
{
  "title": "Titre accrocheur orienté produit/achat (max 80 caractères)",
  "summary": "Résumé de 200-300 caractères expliquant pourquoi cette actu intéresse un acheteur",
  "category": "tech|tendances|economie (choisir la plus pertinente)",
  "tags": ["3-5 tags produits pertinents"],
  "imageKeyword": "mot-clé ANGLAIS précis pour Unsplash (ex: smartphone, headphones, laptop, smartwatch)"
}

Si l'actualité n'est PAS pertinente pour un blog %s, réponds : {"skip": true}

Réponds UNIQUEMENT avec le JSON.`,
		ctx.Description, strings.Join(ctx.Products, ", "),
		item.Title, item.Source, item.Snippet, ctx.Angle)
}

func ideasUserPrompt(blog domain.Blog, count int) string {
	return fmt.Sprintf(`Génère %d idées d'articles pour le blog "%s" dans la niche "%s".

Types d'articles possibles:
- Reviews de produits spécifiques
- Guides d'achat thématiques
- Comparatifs entre produits populaires
- TOP/Classements des meilleurs produits

Format de réponse attendu:
["Idée 1", "Idée 2", ...]`, count, blog.Name, blog.Niche)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func leading[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

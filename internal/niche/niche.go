// Package niche holds the editorial tables that tailor search and
// summarisation to a blog's theme.
package niche

import (
	"fmt"
	"strings"
)

// Context describes a niche to the summarisation oracle.
type Context struct {
	Description string
	Products    []string
	Angle       string
}

var searchKeywords = map[string][]string{
	"tech": {
		"test smartphone 2025",
		"nouveauté high-tech",
		"meilleur gadget tech",
		"comparatif accessoires",
		"sortie produit tech",
		"promo high-tech",
	},
	"audio": {
		"test casque audio",
		"nouveauté enceinte bluetooth",
		"comparatif écouteurs",
		"meilleur DAC audiophile",
		"sortie casque sans fil",
	},
	"gaming": {
		"test console gaming",
		"nouveau jeu vidéo",
		"comparatif manette",
		"meilleur PC gamer",
		"accessoire gaming 2025",
	},
	"mode": {
		"tendance mode 2025",
		"nouvelle collection",
		"marque streetwear",
		"accessoire mode",
		"sneakers sortie",
	},
	"maison": {
		"test robot aspirateur",
		"comparatif électroménager",
		"nouveauté domotique",
		"meilleur purificateur air",
		"gadget maison connectée",
	},
	"sport": {
		"test montre connectée sport",
		"comparatif vélo électrique",
		"meilleur équipement fitness",
		"nouveauté running",
		"accessoire musculation",
	},
	"photo": {
		"test appareil photo",
		"nouveau smartphone photo",
		"comparatif objectif",
		"meilleur drone caméra",
		"accessoire photographe",
	},
	"cuisine": {
		"test robot cuisine",
		"comparatif multicuiseur",
		"meilleur blender",
		"nouveauté électroménager",
		"accessoire cuisine pro",
	},
	"beaute": {
		"test appareil beauté",
		"nouveauté soin visage",
		"comparatif sèche-cheveux",
		"meilleur épilateur",
		"gadget beauté tech",
	},
	"jardin": {
		"test robot tondeuse",
		"comparatif taille-haie",
		"meilleur arrosage automatique",
		"nouveauté outillage jardin",
		"gadget jardinage",
	},
}

var contexts = map[string]Context{
	"tech": {
		Description: "blog de tests et comparatifs de gadgets high-tech",
		Products:    []string{"smartphones", "tablettes", "accessoires tech", "objets connectés", "écouteurs", "montres connectées"},
		Angle:       "guide d'achat et conseils pour choisir les meilleurs produits tech",
	},
	"audio": {
		Description: "blog spécialisé dans le matériel audio et hi-fi",
		Products:    []string{"casques audio", "enceintes", "écouteurs", "amplis", "DAC", "platines"},
		Angle:       "tests et comparatifs pour les audiophiles et mélomanes",
	},
	"gaming": {
		Description: "blog gaming et matériel de jeu",
		Products:    []string{"consoles", "PC gaming", "manettes", "casques gaming", "claviers", "souris"},
		Angle:       "actualités gaming et guides d'achat pour les gamers",
	},
	"maison": {
		Description: "blog domotique et équipement maison",
		Products:    []string{"robots aspirateurs", "purificateurs", "électroménager connecté", "domotique"},
		Angle:       "tests de produits pour la maison intelligente",
	},
	"sport": {
		Description: "blog équipement sportif et fitness",
		Products:    []string{"montres GPS", "vélos électriques", "équipement fitness", "accessoires running"},
		Angle:       "comparatifs et tests pour les sportifs",
	},
	"photo": {
		Description: "blog photo et vidéo",
		Products:    []string{"appareils photo", "objectifs", "drones", "stabilisateurs", "accessoires"},
		Angle:       "tests et guides pour les photographes",
	},
	"cuisine": {
		Description: "blog électroménager cuisine",
		Products:    []string{"robots cuisine", "multicuiseurs", "blenders", "machines à café"},
		Angle:       "tests et comparatifs d'équipement culinaire",
	},
	"beaute": {
		Description: "blog beauté et soins",
		Products:    []string{"appareils beauté", "sèche-cheveux", "épilateurs", "brosses"},
		Angle:       "tests de gadgets beauté et conseils",
	},
}

func key(niche string) string {
	return strings.ToLower(strings.TrimSpace(niche))
}

// Keywords returns the search phrases for a niche followed by extra.
// Unknown niches get generic review/best/comparison phrases.
func Keywords(niche string, extra []string) []string {
	base, ok := searchKeywords[key(niche)]
	if !ok {
		base = []string{
			fmt.Sprintf("test %s", niche),
			fmt.Sprintf("meilleur %s", niche),
			fmt.Sprintf("comparatif %s", niche),
		}
	}

	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, kw := range extra {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// ContextFor returns the editorial context of a niche, deriving a generic
// one from the niche name when it is not in the table.
func ContextFor(niche string) Context {
	if c, ok := contexts[key(niche)]; ok {
		return c
	}
	return Context{
		Description: fmt.Sprintf("blog spécialisé %s", niche),
		Products:    []string{niche},
		Angle:       fmt.Sprintf("actualités et guides %s", niche),
	}
}

package scorer

// Word lists are multilingual (es/pt/fr/ca/en plus a few it/de terms) and
// matched case-insensitively as substrings unless noted.

// anchorPhrases are the 8M / International Women's Day markers. Absence of
// every anchor forces rejection regardless of other signals.
var anchorPhrases = []string{
	"8 de marzo", "8 de março", "8 de març", "8 marzo", "8 mars", "8 march",
	"march 8", "dia internacional de la mujer", "día internacional de la mujer",
	"dia internacional da mulher", "dia internacional de la dona",
	"international women's day", "international womens day",
	"journée internationale des droits des femmes",
	"journee internationale des droits des femmes",
	"huelga feminista", "paro internacional de mujeres",
}

// anchorSlugs are URL-path forms of the anchor.
var anchorSlugs = []string{
	"8m", "8-m", "8-marzo", "8-de-marzo", "8-mars", "8-march", "iwd",
	"womens-day", "women-s-day", "dia-de-la-mujer", "dia-da-mulher",
	"dia-internacional",
}

// activityVocab marks convocation/agenda language: pages describing an
// actual scheduled activity rather than commentary.
var activityVocab = []string{
	"convoca", "marcha", "manifestaci", "concentraci", "huelga", "paro",
	"plantón", "planton", "asamblea", "encuentro", "taller", "charla",
	"conversatorio", "jornada", "actividad", "agenda", "programa",
	"inscripci", "inscríbete", "inscribete", "regístrate", "registrate",
	"lugar", "hora", "cartel",
	"march", "rally", "protest", "demonstration", "strike", "walkout",
	"workshop", "register", "join us", "schedule",
	"manifestation", "grève", "greve", "atelier", "rassemblement",
	"sciopero", "manifestazione", "corteo",
	"streik", "kundgebung",
	"manifestação", "greve geral", "acto",
	"vaga feminista", "concentració",
}

// locationVocab hints that the page names a physical meeting point.
var locationVocab = []string{
	"dirección", "direccion", "lugar", "punto de encuentro", "ubicación",
	"ubicacion", "plaza", "parque", "avenida", "calle",
	"address", "location", "venue", "meet at", "meeting point", "square",
	"lieu", "adresse", "place de",
	"indirizzo", "luogo", "piazza",
	"ort", "treffpunkt",
	"praça", "praca", "endereço", "endereco",
	"plaça", "lloc",
}

// registrationVocab flags sign-up language, one of the hard signals.
var registrationVocab = []string{
	"inscripción", "inscripcion", "inscríbete", "inscribete", "regístrate",
	"registrate", "register", "sign up", "rsvp", "inscription",
	"inscreva", "inscriu", "apúntate", "apuntate",
}

// navVocab covers menu/footer furniture used to spot index pages.
var navVocab = []string{
	"inicio", "contacto", "buscar", "mapa del sitio", "aviso legal",
	"accesibilidad", "intranet", "transparencia", "sede electrónica",
	"sede electronica", "trámites", "tramites", "perfil del contratante",
	"home", "about", "contact", "search", "sitemap", "login", "sign in",
	"newsletter", "subscribe", "read more", "leer más", "leer mas",
	"ver más", "ver mas", "saber más", "saber mas", "política de cookies",
	"politica de cookies", "todos los derechos reservados",
	"all rights reserved", "accueil", "menú principal", "menu principal",
	"categorías", "categorias", "archivo", "etiquetas", "tags",
}

// institutionalVocab marks generic organization titles that, combined with
// heavy nav vocabulary, indicate a homepage rather than an event page.
var institutionalVocab = []string{
	"ayuntamiento", "universidad", "facultad", "diputación", "diputacion",
	"gobierno", "ministerio", "concello", "generalitat", "cabildo",
	"municipalidad", "prefeitura", "câmara municipal", "camara municipal",
	"university", "faculty", "department", "council", "city hall",
	"mairie", "université", "universitat", "ajuntament",
}

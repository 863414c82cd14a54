package wizard

// DataTypeOptions are the predefined data types offered in step 2, in display
// order. The catalog is aimed at financial-sector organizations, hence the
// French labels.
var DataTypeOptions = []string{
	"Données personnelles",
	"Données d'identification",
	"Données de contact",
	"Données financières",
	"Données transactionnelles",
	"Préférences & interactions",
	"Comptes bancaires",
	"Crédits & prêts",
	"Cartes bancaires",
	"Assurances",
	"Placements / investissements",
	"Ressources humaines",
	"Structure organisationnelle",
	"Comptabilité interne",
	"Données fournisseurs / partenaires",
	"Scoring et notation de crédit",
	"Alertes AML / LCB-FT",
	"Sanctions & listes noires",
	"Audit & conformité",
	"Logs d'activité",
	"Données d'accès / authentification",
	"Paramétrages systèmes",
	"Données fiscales",
	"Données de conservation légale",
	"Campagnes marketing",
	"Segments clients",
	"Satisfaction & enquêtes",
}

// Levels for sensitivity and business impact.
var (
	SensitivityOptions    = []string{"none", "low", "medium", "high"}
	BusinessImpactOptions = []string{"none", "low", "medium", "high"}
)

// StorageOptions are the predefined storage locations.
var StorageOptions = []string{"Local files", "Shared drive", "External database"}

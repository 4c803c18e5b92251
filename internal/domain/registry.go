package domain

// PersonRef is an id+name pair nested under an association listing.
type PersonRef struct {
	ID   int64  `json:"ID"`
	Nome string `json:"Nome"`
}

// Association is a tracked organizational entity. The JSON shape keeps
// the legacy uppercase field names the browser client expects.
type Association struct {
	ID                   int64       `json:"ID"`
	Soggetto             string      `json:"SOGGETTO"`
	Mail                 string      `json:"MAIL"`
	Pec                  string      `json:"PEC"`
	Tavolo               string      `json:"TAVOLO"`
	DirettivoDelegazione string      `json:"DIRETTIVO_DELEGAZIONE"`
	Referenti            []PersonRef `json:"REFERENTI_COLLEGATI"`
	AltriSoggetti        []PersonRef `json:"ALTRI_SOGGETTI_COLLEGATI"`
}

// Contact is a named individual linked to exactly one association.
// Used for both referenti and altri soggetti.
type Contact struct {
	ID             int64  `json:"ID"`
	IDAssociazione int64  `json:"ID_Associazione"`
	Nome           string `json:"Nome"`
}

// PersonTipo discriminates the two contact tables in unioned listings.
const (
	PersonTipoReferente     = "Referente"
	PersonTipoAltroSoggetto = "Altro Soggetto"
)

// Person is a contact row decorated with its type and the owning
// association's display name.
type Person struct {
	ID             int64  `json:"ID"`
	IDAssociazione int64  `json:"ID_Associazione"`
	Nome           string `json:"Nome"`
	Tipo           string `json:"Tipo"`
	Soggetto       string `json:"SOGGETTO"`
}

// Meeting is a dated event record ("agora") with agenda text and up to
// two optional attachments, referenced by web-relative path. A file
// field is empty when no attachment is bound.
type Meeting struct {
	ID        int64  `json:"ID"`
	Data      string `json:"Data"`
	Evento    string `json:"Evento"`
	ODG       string `json:"ODG"`
	Verbale   string `json:"Verbale"`
	Documenti string `json:"Documenti"`
}

// Attendee marks which association (and named representative) attended
// a meeting. Soggetto is filled on reads joined with the association.
type Attendee struct {
	ID             int64  `json:"ID"`
	IDAgora        int64  `json:"ID_Agora"`
	IDAssociazione int64  `json:"ID_Associazione"`
	Rappresentante string `json:"Rappresentante"`
	Soggetto       string `json:"SOGGETTO,omitempty"`
}

// User is a login account. Never serialized outside the session gate.
type User struct {
	Email        string
	PasswordHash string
	Nome         string
}

// Operator identifies the signed-in user bound to a session.
type Operator struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
}

// AttachmentKind selects the storage subdirectory and filename prefix
// for an uploaded file.
type AttachmentKind string

const (
	AttachmentVerbale   AttachmentKind = "verbale"
	AttachmentDocumenti AttachmentKind = "documenti"
)

// TableDump is one table's verbatim content for the spreadsheet export.
type TableDump struct {
	Name    string
	Columns []string
	Rows    [][]any
}

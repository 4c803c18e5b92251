package models

// Column and table names follow the legacy sqlite schema so an existing
// database.db keeps working unmigrated.

type Utente struct {
	Email    string `gorm:"column:Email;primaryKey;type:text"`
	Password string `gorm:"column:Password;type:text;not null"`
	Nome     string `gorm:"column:Nome;type:text"`
}

func (Utente) TableName() string { return "Utenti" }

type Associazione struct {
	ID                   int64  `gorm:"column:ID;primaryKey;autoIncrement"`
	Soggetto             string `gorm:"column:SOGGETTO;type:text;index"`
	Mail                 string `gorm:"column:MAIL;type:text"`
	Pec                  string `gorm:"column:PEC;type:text"`
	Tavolo               string `gorm:"column:TAVOLO;type:text"`
	DirettivoDelegazione string `gorm:"column:DIRETTIVO_DELEGAZIONE;type:text"`
}

func (Associazione) TableName() string { return "Associazioni" }

type Referente struct {
	ID             int64        `gorm:"column:ID;primaryKey;autoIncrement"`
	IDAssociazione int64        `gorm:"column:ID_Associazione;index;not null"`
	Associazione   Associazione `gorm:"foreignKey:IDAssociazione;references:ID;constraint:OnDelete:CASCADE;"`
	Nome           string       `gorm:"column:Nome;type:text"`
}

func (Referente) TableName() string { return "Referenti" }

type AltroSoggetto struct {
	ID             int64        `gorm:"column:ID;primaryKey;autoIncrement"`
	IDAssociazione int64        `gorm:"column:ID_Associazione;index;not null"`
	Associazione   Associazione `gorm:"foreignKey:IDAssociazione;references:ID;constraint:OnDelete:CASCADE;"`
	Nome           string       `gorm:"column:Nome;type:text"`
}

func (AltroSoggetto) TableName() string { return "AltriSoggetti" }

type Agora struct {
	ID        int64  `gorm:"column:ID;primaryKey;autoIncrement"`
	Data      string `gorm:"column:Data;type:text;index"`
	Evento    string `gorm:"column:Evento;type:text"`
	ODG       string `gorm:"column:ODG;type:text"`
	Verbale   string `gorm:"column:Verbale;type:text"`
	Documenti string `gorm:"column:Documenti;type:text"`
}

func (Agora) TableName() string { return "Agora" }

type Presenza struct {
	ID             int64        `gorm:"column:ID;primaryKey;autoIncrement"`
	IDAgora        int64        `gorm:"column:ID_Agora;index;not null"`
	Agora          Agora        `gorm:"foreignKey:IDAgora;references:ID;constraint:OnDelete:CASCADE;"`
	IDAssociazione int64        `gorm:"column:ID_Associazione;index;not null"`
	Associazione   Associazione `gorm:"foreignKey:IDAssociazione;references:ID;constraint:OnDelete:CASCADE;"`
	Rappresentante string       `gorm:"column:Rappresentante;type:text"`
}

func (Presenza) TableName() string { return "Presenze" }

package guardrails

// medicalKeywords accept a question as clinically relevant on lexical match.
// Carried over from the hospital deployment's vocabulary.
var medicalKeywords = []string{
	"diagnóstico", "sintoma", "tratamento", "protocolo",
	"medicamento", "droga", "terapia", "paciente", "saúde", "doença",
	"infecção", "inflamação", "alergia", "cirurgia", "hospital",
	"médico", "clínico", "clínica", "pressão", "diabetes", "hipertensão",
	"sepse", "pneumonia", "insuficiência", "cardíaco", "renal", "hepático",
	"antibiótico", "vacinação", "vacina", "febre", "dor", "fadiga",
	"dispneia", "tosse", "náusea", "vômito", "diarreia", "anemia",
	"angiografia", "radiografia", "ressonância", "ultrassom", "tomografia",
	"exame", "laboratorio", "cultura", "hemograma", "medicação",
	"idoso", "geriátrico", "criança", "neonato", "gestante", "pós-operatório",
	"enfermagem", "dose", "dosagem", "posologia",
}

// nonMedicalTopics reject a question outright; checked before the keyword set
// so "receita de bolo" never passes on an incidental keyword.
var nonMedicalTopics = []string{
	"receita", "brigadeiro", "bolo", "pudim", "livro", "romance", "filme",
	"política", "economia", "futebol", "música", "história",
	"matemática", "física", "programação", "código", "javascript",
}

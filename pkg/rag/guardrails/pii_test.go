package guardrails

import (
	"testing"
)

func TestDetectPII(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantType  PIIType
		wantFound bool
	}{
		{
			name:      "cpf",
			text:      "O CPF dele é 123.456.789-00, qual a conduta?",
			wantType:  PIITypeCPF,
			wantFound: true,
		},
		{
			name:      "cnpj",
			text:      "Empresa 12.345.678/0001-90 solicitou o laudo",
			wantType:  PIITypeCNPJ,
			wantFound: true,
		},
		{
			name:      "phone",
			text:      "Ligar para (11) 98765-4321 após a alta",
			wantType:  PIITypePhone,
			wantFound: true,
		},
		{
			name:      "email",
			text:      "Enviar o resultado para maria@example.com",
			wantType:  PIITypeEmail,
			wantFound: true,
		},
		{
			name:      "patient name",
			text:      "O paciente João recebeu a primeira dose",
			wantType:  PIITypePatientName,
			wantFound: true,
		},
		{
			name:      "clean clinical question",
			text:      "Qual o protocolo de sepse para adultos?",
			wantFound: false,
		},
		{
			name:      "lowercase paciente without name",
			text:      "Como monitorar o paciente em sepse?",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotFound := DetectPII(tt.text)

			if gotFound != tt.wantFound {
				t.Fatalf("found = %v, want %v", gotFound, tt.wantFound)
			}
			if gotFound && gotType != tt.wantType {
				t.Errorf("type = %q, want %q", gotType, tt.wantType)
			}
		})
	}
}

func TestDetectPIIFirstMatchWins(t *testing.T) {
	// CPF pattern is listed before email; a text with both reports cpf.
	text := "Paciente com CPF 123.456.789-00, contato joao@example.com"
	gotType, found := DetectPII(text)
	if !found {
		t.Fatal("expected a PII match")
	}
	if gotType != PIITypeCPF {
		t.Errorf("type = %q, want %q", gotType, PIITypeCPF)
	}
}

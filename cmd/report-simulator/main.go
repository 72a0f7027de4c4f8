package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ArthurRamossx/master-league/internal/money"
	"github.com/ArthurRamossx/master-league/internal/report"
	"github.com/ArthurRamossx/master-league/internal/shared/config"
	"github.com/ArthurRamossx/master-league/internal/shared/logger"
)

// Simulador dos endpoints de geração de relatório, para rodar o fluxo
// completo em ambiente local sem o serviço real de documentos.
func main() {
	cfg := config.Load()
	log, _ := logger.New("report-simulator", cfg.Env)
	defer log.Sync()

	mux := http.NewServeMux()
	mux.HandleFunc("/generate-pdf-report", func(w http.ResponseWriter, r *http.Request) {
		serve(w, r, log, "pdf")
	})
	mux.HandleFunc("/generate-word-report", func(w http.ResponseWriter, r *http.Request) {
		serve(w, r, log, "word")
	})

	addr := ":5000"
	log.Info("report-simulator listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Fatal("simulator", zap.Error(err))
	}
}

func serve(w http.ResponseWriter, r *http.Request, log *zap.Logger, kind string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var snap report.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	sum := report.Summarize(snap.Bets)
	body := renderText(snap, sum)

	var payload []byte
	switch kind {
	case "pdf":
		payload = minimalPDF(body)
		w.Header().Set("Content-Type", "application/pdf")
	default:
		payload = minimalDocx(body)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	}

	log.Info("report served", zap.String("kind", kind), zap.Int("bets", sum.TotalBets))
	_, _ = w.Write(payload)
}

func renderText(snap report.Snapshot, sum report.Summary) string {
	var b strings.Builder
	b.WriteString("MASTER LEAGUE - Relatorio de Apostas\n\n")
	fmt.Fprintf(&b, "Total de Apostas: %d\n", sum.TotalBets)
	fmt.Fprintf(&b, "Valor Total Apostado: %s\n", money.FormatAmount(sum.TotalAmount))
	fmt.Fprintf(&b, "Pendentes: %d  Ganhas: %d  Perdidas: %d\n\n", sum.Pending, sum.Won, sum.Lost)
	for _, bet := range snap.Bets {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %.2f | %s\n",
			bet.Player, bet.GameName, bet.SideLabel(),
			money.FormatAmount(bet.Amount), bet.Odd, bet.Status.Label())
	}
	return b.String()
}

// minimalPDF monta um PDF de página única com o texto do relatório.
func minimalPDF(text string) []byte {
	content := "BT /F1 10 Tf 40 800 Td 12 TL\n"
	for _, line := range strings.Split(text, "\n") {
		content += "(" + pdfEscape(line) + ") Tj T*\n"
	}
	content += "ET"

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, 5)
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	writeObj(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content))
	writeObj("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func pdfEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	return strings.ReplaceAll(s, ")", `\)`)
}

// minimalDocx monta um .docx válido (zip com document.xml) com o texto.
func minimalDocx(text string) []byte {
	var paras strings.Builder
	for _, line := range strings.Split(text, "\n") {
		paras.WriteString("<w:p><w:r><w:t xml:space=\"preserve\">" + xmlEscape(line) + "</w:t></w:r></w:p>")
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` + paras.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		f, _ := zw.Create(name)
		_, _ = f.Write([]byte(content))
	}
	_ = zw.Close()
	return buf.Bytes()
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

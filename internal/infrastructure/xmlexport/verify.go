package xmlexport

import (
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrTampered el contenido no coincide con el digest o la firma.
var ErrTampered = errors.New("xmlexport: el extracto fue alterado")

// Verify comprueba un extracto generado por ExportLedger. Con key vacía solo valida el digest.
func Verify(data []byte, key string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("xmlexport: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("xmlexport: documento sin raíz")
	}
	sig := root.SelectElement("ds:Signature")
	if sig == nil {
		return fmt.Errorf("xmlexport: falta ds:Signature")
	}
	digestEl := sig.FindElement("./ds:SignedInfo/ds:Reference/ds:DigestValue")
	if digestEl == nil {
		return fmt.Errorf("xmlexport: falta DigestValue")
	}
	claimed := digestEl.Text()
	valueEl := sig.SelectElement("ds:SignatureValue")

	root.RemoveChild(sig)
	unsigned, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("xmlexport: serializar: %w", err)
	}
	if digestOf(unsigned) != claimed {
		return ErrTampered
	}

	if key == "" {
		return nil
	}
	if valueEl == nil {
		return fmt.Errorf("xmlexport: el extracto no está firmado")
	}
	expected := NewExporter(key).signatureValue(buildSignedInfo(claimed, true))
	if !hmac.Equal([]byte(expected), []byte(valueEl.Text())) {
		return ErrTampered
	}
	return nil
}

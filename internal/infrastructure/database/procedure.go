package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// createInvoiceAtomicSQL installs create_invoice_atomic(jsonb). The payload is
// {"invoice": {...}, "items": [{...}]} with keys named after table columns.
// Numbering is serialized with a transaction-scoped advisory lock and every
// unit is decremented by one; any failure aborts the whole call. The year in
// the number is read from the invoice_date text in the payload, so both
// checkout paths number by the application clock.
const createInvoiceAtomicSQL = `
CREATE OR REPLACE FUNCTION create_invoice_atomic(payload jsonb)
RETURNS TABLE (invoice_number text, invoice_id uuid)
LANGUAGE plpgsql AS $$
#variable_conflict use_column
DECLARE
	hdr invoices;
	item jsonb;
	seq bigint;
	v_number text;
BEGIN
	PERFORM pg_advisory_xact_lock(hashtext('create_invoice_atomic'));

	hdr := jsonb_populate_record(NULL::invoices, payload->'invoice');
	SELECT count(*) + 1 INTO seq FROM invoices;
	v_number := 'INV'
		|| COALESCE(substr(payload->'invoice'->>'invoice_date', 1, 4), to_char(now(), 'YYYY'))
		|| lpad(seq::text, 6, '0');

	hdr.id := COALESCE(hdr.id, gen_random_uuid());
	hdr.invoice_number := v_number;
	hdr.persistence_path := 'atomic';
	hdr.created_at := now();
	hdr.updated_at := now();
	INSERT INTO invoices SELECT (hdr).*;

	FOR item IN SELECT value FROM jsonb_array_elements(payload->'items') LOOP
		UPDATE stock_units
		   SET quantity = quantity - 1, updated_at = now()
		 WHERE unit_key = item->>'unit_key'
		   AND deleted_at IS NULL
		   AND quantity >= 1;
		IF NOT FOUND THEN
			RAISE EXCEPTION 'insufficient stock for unit %', item->>'unit_key'
				USING ERRCODE = 'P0001';
		END IF;

		INSERT INTO invoice_items
		SELECT (jsonb_populate_record(NULL::invoice_items, item || jsonb_build_object(
			'id', gen_random_uuid(),
			'invoice_id', hdr.id,
			'created_at', now(),
			'updated_at', now()
		))).*;
	END LOOP;

	RETURN QUERY SELECT v_number, hdr.id;
END;
$$;
`

// InstallInvoiceProcedure creates or replaces the atomic invoice function.
// Must run after AutoMigrate since the function is typed on the tables.
func InstallInvoiceProcedure(db *gorm.DB, log *zap.Logger) error {
	if err := db.Exec(createInvoiceAtomicSQL).Error; err != nil {
		return fmt.Errorf("failed to install create_invoice_atomic: %w", err)
	}
	log.Info("installed create_invoice_atomic procedure")
	return nil
}

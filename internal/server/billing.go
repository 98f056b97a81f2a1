package server

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	pipelineservice "github.com/andeslabs/facturador/internal/pipeline/service"
)

const (
	fileFieldDeclaration = "file"
	fileFieldInventory   = "fileInventario"
	fileFieldBingo       = "fileBingo"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeZIP  = "application/zip"
)

// ListCompanies handles GET /api/v1/empresas
func (s *Server) ListCompanies(c *gin.Context) {
	respondData(c, s.directory.List())
}

// AnalyzeInventory handles POST /api/v1/inventario/upload
func (s *Server) AnalyzeInventory(c *gin.Context) {
	file, _, err := s.formFile(c, fileFieldInventory, true)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	analysis, err := s.pipeline.AnalyzeInventory(c.Request.Context(), file)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, analysis)
}

// BuildWorkbook handles POST /api/v1/facturacion/uploadFacturacion
func (s *Server) BuildWorkbook(c *gin.Context) {
	inputs, closers, err := s.collectInputs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer closeAll(closers)

	data, err := s.pipeline.BuildWorkbook(c.Request.Context(), inputs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondFile(c, "Facturacion.xlsx", contentTypeXLSX, data)
}

// BuildArchive handles POST /api/v1/informes/zip
func (s *Server) BuildArchive(c *gin.Context) {
	companyName := strings.TrimSpace(c.PostForm("empresa"))
	if companyName == "" {
		AbortWithError(c, newValidationError("empresa", "required", "empresa is required"))
		return
	}
	contract := strings.TrimSpace(c.PostForm("contrato"))
	if contract == "" {
		AbortWithError(c, newValidationError("contrato", "required", "contrato is required"))
		return
	}

	inputs, closers, err := s.collectInputs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer closeAll(closers)

	outcome, err := s.pipeline.BuildArchive(c.Request.Context(), companyName, contract, inputs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(outcome.Failed) > 0 {
		c.Header("X-Informes-Fallidos", strings.Join(outcome.Failed, ";"))
	}
	respondFile(c, outcome.Name, contentTypeZIP, outcome.Data)
}

// CheckBilled handles GET /api/v1/verificacion/facturado
func (s *Server) CheckBilled(c *gin.Context) {
	companyName := strings.TrimSpace(c.Query("empresa"))
	contract := strings.TrimSpace(c.Query("contrato"))
	if companyName == "" || contract == "" {
		AbortWithError(c, newValidationError("empresa", "required", "empresa and contrato are required"))
		return
	}

	billed, archive, err := s.pipeline.AlreadyBilled(companyName, contract)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"yaFacturado": billed, "archivo": archive})
}

// collectInputs pulls the required declaration and inventory uploads plus
// the optional bingo supplement out of the multipart form. On failure any
// already-opened upload is closed before returning.
func (s *Server) collectInputs(c *gin.Context) (pipelineservice.Inputs, []multipart.File, error) {
	var closers []multipart.File

	declaration, declarationName, err := s.formFile(c, fileFieldDeclaration, true)
	if err != nil {
		return pipelineservice.Inputs{}, nil, err
	}
	closers = append(closers, declaration)

	inventory, inventoryName, err := s.formFile(c, fileFieldInventory, true)
	if err != nil {
		closeAll(closers)
		return pipelineservice.Inputs{}, nil, err
	}
	closers = append(closers, inventory)

	inputs := pipelineservice.Inputs{
		Declaration:     declaration,
		DeclarationName: declarationName,
		Inventory:       inventory,
		InventoryName:   inventoryName,
	}

	bingo, bingoName, err := s.formFile(c, fileFieldBingo, false)
	if err != nil {
		closeAll(closers)
		return pipelineservice.Inputs{}, nil, err
	}
	if bingo != nil {
		closers = append(closers, bingo)
		inputs.Bingo = bingo
		inputs.BingoName = bingoName
	}
	return inputs, closers, nil
}

func (s *Server) formFile(c *gin.Context, field string, required bool) (multipart.File, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if !required {
			return nil, "", nil
		}
		return nil, "", newValidationError(field, "required", field+" file is required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	return file, header.Filename, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

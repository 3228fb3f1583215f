package router

import (
	"context"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/processor"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		sourceChannel := ctx.PostForm("source_channel")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Filename, sourceChannel)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.POST("/resume/match", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		// 空岗位描述是合法输入，得分为0
		jobText := ctx.PostForm("job_description")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleMatch(c, file, fileHeader.Filename, jobText)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.POST("/resume/bulk-match", func(c context.Context, ctx *app.RequestContext) {
		form, err := ctx.MultipartForm()
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "解析multipart表单失败"})
			return
		}

		fileHeaders := form.File["files"]
		if len(fileHeaders) == 0 {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "未上传任何文件"})
			return
		}

		jobText := ctx.PostForm("job_description")

		// min_score可选，缺省或非法时传-1由流水线落到默认值；显式的0保留所有结果
		minScore := -1.0
		if raw := ctx.PostForm("min_score"); raw != "" {
			if parsed, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil && parsed >= 0 {
				minScore = parsed
			}
		}

		files := make([]processor.BulkFile, 0, len(fileHeaders))
		for _, fh := range fileHeaders {
			f, openErr := fh.Open()
			if openErr != nil {
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败: " + fh.Filename})
				return
			}
			data, readErr := io.ReadAll(f)
			f.Close()
			if readErr != nil {
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败: " + fh.Filename})
				return
			}
			files = append(files, processor.BulkFile{FileName: fh.Filename, Data: data})
		}

		resp, err := resumeHandler.HandleBulkMatch(c, files, jobText, minScore)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/env-check", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, resumeHandler.HandleEnvCheck(c))
	})

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
